package implementation

import (
	"context"

	"notevault-be/internal/entity"
	"notevault-be/internal/mapper"
	"notevault-be/internal/model"
	"notevault-be/internal/repository/contract"
	"notevault-be/internal/repository/specification"

	"gorm.io/gorm"
)

type NoteHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteHistoryMapper
}

func NewNoteHistoryRepository(db *gorm.DB) contract.NoteHistoryRepository {
	return &NoteHistoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteHistoryMapper(),
	}
}

func (r *NoteHistoryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteHistoryRepositoryImpl) Create(ctx context.Context, entry *entity.NoteHistory) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteHistoryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteHistory, error) {
	var models []*model.NoteHistory
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteHistoryRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.NoteHistory{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
