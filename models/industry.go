package models

import (
	"time"

	"github.com/google/uuid"
)

// Industry is a shared lookup attached to experiences.
type Industry struct {
	Base
	Title string `db:"title" gorm:"type:text;uniqueIndex;not null"`
}

type IndustryDTO struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IndustryFromDTO(dto IndustryDTO) *Industry {
	return &Industry{Title: dto.Title}
}

func (i *Industry) Merge(dto IndustryDTO) {
	i.Title = dto.Title
}

func (i *Industry) ToDTO() IndustryDTO {
	return IndustryDTO{ID: i.ID, Title: i.Title, CreatedAt: i.CreatedAt, UpdatedAt: i.UpdatedAt}
}
