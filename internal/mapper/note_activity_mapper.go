package mapper

import (
	"notevault-be/internal/entity"
	"notevault-be/internal/model"
)

type NoteActivityMapper struct{}

func NewNoteActivityMapper() *NoteActivityMapper {
	return &NoteActivityMapper{}
}

func (m *NoteActivityMapper) ToEntity(a *model.NoteActivity) *entity.NoteActivity {
	if a == nil {
		return nil
	}
	return &entity.NoteActivity{
		Id:         a.Id,
		NoteId:     a.NoteId,
		UserId:     a.UserId,
		Action:     a.Action,
		OccurredAt: a.OccurredAt,
	}
}

func (m *NoteActivityMapper) ToModel(a *entity.NoteActivity) *model.NoteActivity {
	if a == nil {
		return nil
	}
	return &model.NoteActivity{
		Id:         a.Id,
		NoteId:     a.NoteId,
		UserId:     a.UserId,
		Action:     a.Action,
		OccurredAt: a.OccurredAt,
	}
}

func (m *NoteActivityMapper) ToEntities(models []*model.NoteActivity) []*entity.NoteActivity {
	entities := make([]*entity.NoteActivity, 0, len(models))
	for _, a := range models {
		entities = append(entities, m.ToEntity(a))
	}
	return entities
}
