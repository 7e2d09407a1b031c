package entity

import (
	"time"

	"github.com/google/uuid"
)

// SharedNote is the single grant record for a note. GranteeIds is the set of
// users with read access beyond the owner; the owner is never a member.
type SharedNote struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	NoteId     uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	SharedAt   time.Time
	GranteeIds []uuid.UUID `gorm:"-"`
}
