package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required,max=150"`
	Content string `json:"content" validate:"required"`
}

type NoteResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateNoteRequest carries partial updates: nil means "leave unchanged",
// which keeps "not supplied" distinct from "set to empty".
type UpdateNoteRequest struct {
	Id      uuid.UUID
	Title   *string `json:"title" validate:"omitempty,min=1,max=150"`
	Content *string `json:"content" validate:"omitempty,min=1"`
}

type ShareNoteRequest struct {
	Id        uuid.UUID
	Usernames []string `json:"users" validate:"required,min=1,dive,required"`
}

type ShareNoteResponse struct {
	NoteId     uuid.UUID `json:"note_id"`
	SharedWith []string  `json:"shared_with"`
	Unresolved []string  `json:"unresolved"`
}

type HistoryEntryResponse struct {
	Id         uuid.UUID `json:"id"`
	NoteId     uuid.UUID `json:"note_id"`
	Content    string    `json:"content"`
	CapturedAt time.Time `json:"captured_at"`
}

type NoteActivityResponse struct {
	NoteId     uuid.UUID `json:"note_id"`
	UserId     uuid.UUID `json:"user_id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NoteActivityMessage is the payload published on the activity topic.
type NoteActivityMessage struct {
	NoteId     uuid.UUID `json:"note_id"`
	UserId     uuid.UUID `json:"user_id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}
