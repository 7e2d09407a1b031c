package mapper

import (
	"notevault-be/internal/entity"
	"notevault-be/internal/model"
)

type NoteHistoryMapper struct{}

func NewNoteHistoryMapper() *NoteHistoryMapper {
	return &NoteHistoryMapper{}
}

func (m *NoteHistoryMapper) ToEntity(h *model.NoteHistory) *entity.NoteHistory {
	if h == nil {
		return nil
	}
	return &entity.NoteHistory{
		Id:         h.Id,
		NoteId:     h.NoteId,
		Content:    h.Content,
		CapturedAt: h.CapturedAt,
	}
}

func (m *NoteHistoryMapper) ToModel(h *entity.NoteHistory) *model.NoteHistory {
	if h == nil {
		return nil
	}
	return &model.NoteHistory{
		Id:         h.Id,
		NoteId:     h.NoteId,
		Content:    h.Content,
		CapturedAt: h.CapturedAt,
	}
}

func (m *NoteHistoryMapper) ToEntities(models []*model.NoteHistory) []*entity.NoteHistory {
	entities := make([]*entity.NoteHistory, 0, len(models))
	for _, h := range models {
		entities = append(entities, m.ToEntity(h))
	}
	return entities
}
