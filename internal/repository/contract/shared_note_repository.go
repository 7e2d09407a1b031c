package contract

import (
	"context"

	"notevault-be/internal/entity"

	"github.com/google/uuid"
)

type SharedNoteRepository interface {
	// Upsert returns the note's grant record, creating it on first use.
	// At most one record exists per note.
	Upsert(ctx context.Context, noteId uuid.UUID) (*entity.SharedNote, error)

	// AddGrantees unions userIds into the grant's grantee set. Re-adding an
	// existing grantee is a no-op.
	AddGrantees(ctx context.Context, sharedNoteId uuid.UUID, userIds []uuid.UUID) error

	// Grantees returns the grantee set for a note, empty if never shared.
	Grantees(ctx context.Context, noteId uuid.UUID) ([]uuid.UUID, error)
}
