package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Experience is a work history entry tagged with any number of industries.
type Experience struct {
	Base
	Ownership
	Title            string                      `db:"title" gorm:"type:text;not null"`
	CompanyName      string                      `db:"company_name" gorm:"type:text;not null"`
	Location         *string                     `db:"location" gorm:"type:text"`
	StartDate        string                      `db:"start_date" gorm:"type:text;not null"`
	EndDate          string                      `db:"end_date" gorm:"type:text;not null"`
	Headline         *string                     `db:"headline" gorm:"type:text"`
	Responsibilities datatypes.JSONSlice[string] `db:"responsibilities"`
	Media            *string                     `db:"media" gorm:"type:text"`

	Industries []Industry `gorm:"many2many:experience_industry_links;joinForeignKey:ExperienceID;joinReferences:IndustryID"`
}

// ExperienceIndustryLink is the join row between an experience and an industry.
type ExperienceIndustryLink struct {
	ExperienceID uuid.UUID `db:"experience_id" gorm:"type:uuid;primaryKey"`
	IndustryID   uuid.UUID `db:"industry_id" gorm:"type:uuid;primaryKey"`
}

type ExperienceDTO struct {
	ID               uuid.UUID     `json:"id"`
	Title            string        `json:"title" validate:"required"`
	CompanyName      string        `json:"company_name" validate:"required"`
	Location         *string       `json:"location,omitempty"`
	StartDate        string        `json:"start_date" validate:"required"`
	EndDate          string        `json:"end_date" validate:"required"`
	Headline         *string       `json:"headline,omitempty"`
	Responsibilities []string      `json:"responsibilities"`
	Media            *string       `json:"media,omitempty"`
	Industries       []IndustryDTO `json:"industries"`
	UserID           uuid.UUID     `json:"user_id"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func ExperienceFromDTO(dto ExperienceDTO) *Experience {
	experience := &Experience{}
	experience.Merge(dto)
	return experience
}

// Merge overwrites the scalar fields. Industries are reconciled separately.
func (e *Experience) Merge(dto ExperienceDTO) {
	e.Title = dto.Title
	e.CompanyName = dto.CompanyName
	e.Location = dto.Location
	e.StartDate = dto.StartDate
	e.EndDate = dto.EndDate
	e.Headline = dto.Headline
	e.Responsibilities = jsonStrings(dto.Responsibilities)
	e.Media = dto.Media
}

func (e *Experience) ToDTO() ExperienceDTO {
	dto := ExperienceDTO{
		ID:               e.ID,
		Title:            e.Title,
		CompanyName:      e.CompanyName,
		Location:         e.Location,
		StartDate:        e.StartDate,
		EndDate:          e.EndDate,
		Headline:         e.Headline,
		Responsibilities: cloneStrings(e.Responsibilities),
		Media:            e.Media,
		Industries:       []IndustryDTO{},
		UserID:           e.UserID,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
	for i := range e.Industries {
		dto.Industries = append(dto.Industries, e.Industries[i].ToDTO())
	}
	return dto
}

func (d ExperienceDTO) IndustryIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(d.Industries))
	for _, industry := range d.Industries {
		ids = append(ids, industry.ID)
	}
	return ids
}
