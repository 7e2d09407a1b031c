package contract

import (
	"context"

	"notevault-be/internal/entity"
	"notevault-be/internal/repository/specification"
)

// NoteHistoryRepository is append-only: entries are never updated or deleted.
type NoteHistoryRepository interface {
	Create(ctx context.Context, entry *entity.NoteHistory) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteHistory, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
