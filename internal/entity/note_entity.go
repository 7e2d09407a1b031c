package entity

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string
	Content   string
	UserId    uuid.UUID `gorm:"type:uuid;index"` // owner, never reassigned
	CreatedAt time.Time
	UpdatedAt time.Time
}
