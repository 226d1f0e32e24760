package models

import (
	"time"

	"github.com/google/uuid"
)

// SocialNetworking is a user's profile link on a given service.
type SocialNetworking struct {
	Base
	Ownership
	URL       string    `db:"url" gorm:"type:text;not null"`
	ServiceID uuid.UUID `db:"service_id" gorm:"type:uuid;index;not null"`

	Service *SocialNetworkingService `gorm:"foreignKey:ServiceID"`
}

// SocialNetworkingService is the lookup of known networks. Names are unique.
type SocialNetworkingService struct {
	Base
	Name string `db:"name" gorm:"type:text;uniqueIndex;not null"`
}

type SocialNetworkingDTO struct {
	ID        uuid.UUID                   `json:"id"`
	URL       string                      `json:"url" validate:"required"`
	ServiceID uuid.UUID                   `json:"service_id" validate:"required"`
	Service   *SocialNetworkingServiceDTO `json:"service,omitempty"`
	UserID    uuid.UUID                   `json:"user_id"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

type SocialNetworkingServiceDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func SocialNetworkingFromDTO(dto SocialNetworkingDTO) *SocialNetworking {
	sns := &SocialNetworking{}
	sns.Merge(dto)
	return sns
}

func (s *SocialNetworking) Merge(dto SocialNetworkingDTO) {
	s.URL = dto.URL
	s.ServiceID = dto.ServiceID
	// force a reload of the service on the next read
	s.Service = nil
}

func (s *SocialNetworking) ToDTO() SocialNetworkingDTO {
	dto := SocialNetworkingDTO{
		ID:        s.ID,
		URL:       s.URL,
		ServiceID: s.ServiceID,
		UserID:    s.UserID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.Service != nil {
		service := s.Service.ToDTO()
		dto.Service = &service
	}
	return dto
}

func SocialNetworkingServiceFromDTO(dto SocialNetworkingServiceDTO) *SocialNetworkingService {
	return &SocialNetworkingService{Name: dto.Name}
}

func (s *SocialNetworkingService) Merge(dto SocialNetworkingServiceDTO) {
	s.Name = dto.Name
}

func (s *SocialNetworkingService) ToDTO() SocialNetworkingServiceDTO {
	return SocialNetworkingServiceDTO{ID: s.ID, Name: s.Name, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt}
}
