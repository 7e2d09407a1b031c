package contract

import (
	"context"

	"notevault-be/internal/entity"
	"notevault-be/internal/repository/specification"
)

type NoteActivityRepository interface {
	Create(ctx context.Context, activity *entity.NoteActivity) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteActivity, error)
}
