package model

import (
	"time"

	"github.com/google/uuid"
)

type NoteActivity struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NoteId     uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId     uuid.UUID `gorm:"type:uuid;not null;index"`
	Action     string    `gorm:"type:varchar(50);not null"`
	OccurredAt time.Time `gorm:"not null"`
}

func (NoteActivity) TableName() string {
	return "note_activities"
}
