package model

import (
	"time"

	"github.com/google/uuid"
)

type SharedNote struct {
	Id       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NoteId   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	SharedAt time.Time `gorm:"autoCreateTime"`
}

func (SharedNote) TableName() string {
	return "shared_notes"
}

// SharedNoteUser is one grantee row; the composite unique index makes the
// grantee set idempotent under repeated shares.
type SharedNoteUser struct {
	SharedNoteId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_shared_note_grantee"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_shared_note_grantee"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (SharedNoteUser) TableName() string {
	return "shared_note_users"
}
