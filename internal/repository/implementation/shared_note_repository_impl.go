package implementation

import (
	"context"
	"errors"
	"time"

	"notevault-be/internal/entity"
	"notevault-be/internal/mapper"
	"notevault-be/internal/model"
	"notevault-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SharedNoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SharedNoteMapper
}

func NewSharedNoteRepository(db *gorm.DB) contract.SharedNoteRepository {
	return &SharedNoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewSharedNoteMapper(),
	}
}

func (r *SharedNoteRepositoryImpl) Upsert(ctx context.Context, noteId uuid.UUID) (*entity.SharedNote, error) {
	var m model.SharedNote
	err := r.db.WithContext(ctx).Where("note_id = ?", noteId).First(&m).Error
	if err == nil {
		return r.mapper.ToEntity(&m), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	m = model.SharedNote{
		Id:       uuid.New(),
		NoteId:   noteId,
		SharedAt: time.Now(),
	}
	// The unique index on note_id keeps this race-safe: a concurrent first
	// share wins the insert and we re-read its row.
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "note_id"}},
		DoNothing: true,
	}).Create(&m).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Where("note_id = ?", noteId).First(&m).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SharedNoteRepositoryImpl) AddGrantees(ctx context.Context, sharedNoteId uuid.UUID, userIds []uuid.UUID) error {
	if len(userIds) == 0 {
		return nil
	}
	rows := make([]model.SharedNoteUser, 0, len(userIds))
	for _, userId := range userIds {
		rows = append(rows, model.SharedNoteUser{
			SharedNoteId: sharedNoteId,
			UserId:       userId,
		})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "shared_note_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&rows).Error
}

func (r *SharedNoteRepositoryImpl) Grantees(ctx context.Context, noteId uuid.UUID) ([]uuid.UUID, error) {
	var userIds []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.SharedNoteUser{}).
		Joins("JOIN shared_notes ON shared_notes.id = shared_note_users.shared_note_id").
		Where("shared_notes.note_id = ?", noteId).
		Pluck("shared_note_users.user_id", &userIds).Error
	if err != nil {
		return nil, err
	}
	return userIds, nil
}
