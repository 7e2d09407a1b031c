package entity

import (
	"time"

	"github.com/google/uuid"
)

// NoteHistory is an append-only snapshot of a note's content as it was
// immediately before the update that produced this entry.
type NoteHistory struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	NoteId     uuid.UUID `gorm:"type:uuid;index"`
	Content    string
	CapturedAt time.Time
}
