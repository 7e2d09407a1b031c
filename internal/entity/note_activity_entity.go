package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	NoteActivityCreated = "created"
	NoteActivityUpdated = "updated"
	NoteActivityShared  = "shared"
)

type NoteActivity struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	NoteId     uuid.UUID `gorm:"type:uuid;index"`
	UserId     uuid.UUID `gorm:"type:uuid;index"`
	Action     string
	OccurredAt time.Time
}
