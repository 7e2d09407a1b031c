package mapper

import (
	"notevault-be/internal/entity"
	"notevault-be/internal/model"
)

type SharedNoteMapper struct{}

func NewSharedNoteMapper() *SharedNoteMapper {
	return &SharedNoteMapper{}
}

func (m *SharedNoteMapper) ToEntity(s *model.SharedNote) *entity.SharedNote {
	if s == nil {
		return nil
	}
	return &entity.SharedNote{
		Id:       s.Id,
		NoteId:   s.NoteId,
		SharedAt: s.SharedAt,
	}
}

func (m *SharedNoteMapper) ToModel(s *entity.SharedNote) *model.SharedNote {
	if s == nil {
		return nil
	}
	return &model.SharedNote{
		Id:       s.Id,
		NoteId:   s.NoteId,
		SharedAt: s.SharedAt,
	}
}
