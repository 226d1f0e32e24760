package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Skill struct {
	Base
	Ownership
	Professional datatypes.JSONSlice[string] `db:"professional"`
	Workflow     datatypes.JSONSlice[string] `db:"workflow"`
}

type SkillDTO struct {
	ID           uuid.UUID `json:"id"`
	Professional []string  `json:"professional"`
	Workflow     []string  `json:"workflow"`
	UserID       uuid.UUID `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func SkillFromDTO(dto SkillDTO) *Skill {
	skill := &Skill{}
	skill.Merge(dto)
	return skill
}

func (s *Skill) Merge(dto SkillDTO) {
	s.Professional = jsonStrings(dto.Professional)
	s.Workflow = jsonStrings(dto.Workflow)
}

func (s *Skill) ToDTO() SkillDTO {
	return SkillDTO{
		ID:           s.ID,
		Professional: cloneStrings(s.Professional),
		Workflow:     cloneStrings(s.Workflow),
		UserID:       s.UserID,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
