package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Education struct {
	Base
	Ownership
	School          string                      `db:"school" gorm:"type:text;not null"`
	Degree          string                      `db:"degree" gorm:"type:text;not null"`
	Field           string                      `db:"field" gorm:"type:text;not null"`
	StartYear       *string                     `db:"start_year" gorm:"type:text"`
	EndYear         *string                     `db:"end_year" gorm:"type:text"`
	Grade           *string                     `db:"grade" gorm:"type:text"`
	Activities      datatypes.JSONSlice[string] `db:"activities"`
	Accomplishments datatypes.JSONSlice[string] `db:"accomplishments"`
	Media           *string                     `db:"media" gorm:"type:text"`
}

type EducationDTO struct {
	ID              uuid.UUID `json:"id"`
	School          string    `json:"school" validate:"required"`
	Degree          string    `json:"degree" validate:"required"`
	Field           string    `json:"field" validate:"required"`
	StartYear       *string   `json:"start_year,omitempty"`
	EndYear         *string   `json:"end_year,omitempty"`
	Grade           *string   `json:"grade,omitempty"`
	Activities      []string  `json:"activities"`
	Accomplishments []string  `json:"accomplishments"`
	Media           *string   `json:"media,omitempty"`
	UserID          uuid.UUID `json:"user_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func EducationFromDTO(dto EducationDTO) *Education {
	education := &Education{}
	education.Merge(dto)
	return education
}

func (e *Education) Merge(dto EducationDTO) {
	e.School = dto.School
	e.Degree = dto.Degree
	e.Field = dto.Field
	e.StartYear = dto.StartYear
	e.EndYear = dto.EndYear
	e.Grade = dto.Grade
	e.Activities = jsonStrings(dto.Activities)
	e.Accomplishments = jsonStrings(dto.Accomplishments)
	e.Media = dto.Media
}

func (e *Education) ToDTO() EducationDTO {
	return EducationDTO{
		ID:              e.ID,
		School:          e.School,
		Degree:          e.Degree,
		Field:           e.Field,
		StartYear:       e.StartYear,
		EndYear:         e.EndYear,
		Grade:           e.Grade,
		Activities:      cloneStrings(e.Activities),
		Accomplishments: cloneStrings(e.Accomplishments),
		Media:           e.Media,
		UserID:          e.UserID,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}
