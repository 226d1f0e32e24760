package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogCategory groups blog posts. Names are unique.
type BlogCategory struct {
	Base
	Name string `db:"name" gorm:"type:text;uniqueIndex;not null"`
}

type BlogCategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func BlogCategoryFromDTO(dto BlogCategoryDTO) *BlogCategory {
	return &BlogCategory{Name: dto.Name}
}

func (c *BlogCategory) Merge(dto BlogCategoryDTO) {
	c.Name = dto.Name
}

func (c *BlogCategory) ToDTO() BlogCategoryDTO {
	return BlogCategoryDTO{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}
