package model

import (
	"time"

	"github.com/google/uuid"
)

type NoteHistory struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NoteId     uuid.UUID `gorm:"type:uuid;not null;index"`
	Content    string    `gorm:"type:text;not null"`
	CapturedAt time.Time `gorm:"not null;index"`
}

func (NoteHistory) TableName() string {
	return "note_histories"
}
