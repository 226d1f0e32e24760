package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ProjectKindApp     = "app"
	ProjectKindWebsite = "website"
	ProjectKindLibrary = "library"

	ProjectVisibilityPrivate = "private"
	ProjectVisibilityPublic  = "public"
)

// Project represents a complete project with metadata
type Project struct {
	Base
	Ownership
	Name               string                      `db:"name" gorm:"type:text;not null"`
	Note               *string                     `db:"note" gorm:"type:text"`
	Genres             datatypes.JSONSlice[string] `db:"genres"`
	Summary            string                      `db:"summary" gorm:"type:text;not null"`
	ArtworkURL         *string                     `db:"artwork_url" gorm:"type:text"`
	BackgroundImageURL *string                     `db:"background_image_url" gorm:"type:text"`
	PromoImageURL      *string                     `db:"promo_image_url" gorm:"type:text"`
	ScreenshotURLs     datatypes.JSONSlice[string] `db:"screenshot_urls"`
	PadScreenshotURLs  datatypes.JSONSlice[string] `db:"pad_screenshot_urls"`
	Kind               string                      `db:"kind" gorm:"type:text;not null"`
	Visibility         string                      `db:"visibility" gorm:"type:text;not null"`
	TrackViewURL       *string                     `db:"track_view_url" gorm:"type:text"`
	TrackID            *string                     `db:"track_id" gorm:"type:text"`
	StartDate          time.Time                   `db:"start_date" gorm:"not null"`
	EndDate            *time.Time                  `db:"end_date"`
	IsOpenSource       bool                        `db:"is_open_source" gorm:"not null;default:false"`
}

type ProjectDTO struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name" validate:"required"`
	Note               *string    `json:"note,omitempty"`
	Genres             []string   `json:"genres"`
	Summary            string     `json:"summary" validate:"required"`
	ArtworkURL         *string    `json:"artwork_url,omitempty"`
	BackgroundImageURL *string    `json:"background_image_url,omitempty"`
	PromoImageURL      *string    `json:"promo_image_url,omitempty"`
	ScreenshotURLs     []string   `json:"screenshot_urls"`
	PadScreenshotURLs  []string   `json:"pad_screenshot_urls"`
	Kind               string     `json:"kind" validate:"required,oneof=app website library"`
	Visibility         string     `json:"visibility" validate:"required,oneof=private public"`
	TrackViewURL       *string    `json:"track_view_url,omitempty"`
	TrackID            *string    `json:"track_id,omitempty"`
	StartDate          time.Time  `json:"start_date" validate:"required"`
	EndDate            *time.Time `json:"end_date,omitempty"`
	IsOpenSource       bool       `json:"is_open_source"`
	UserID             uuid.UUID  `json:"user_id"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func ProjectFromDTO(dto ProjectDTO) *Project {
	project := &Project{}
	project.Merge(dto)
	return project
}

func (p *Project) Merge(dto ProjectDTO) {
	p.Name = dto.Name
	p.Note = dto.Note
	p.Genres = jsonStrings(dto.Genres)
	p.Summary = dto.Summary
	p.ArtworkURL = dto.ArtworkURL
	p.BackgroundImageURL = dto.BackgroundImageURL
	p.PromoImageURL = dto.PromoImageURL
	p.ScreenshotURLs = jsonStrings(dto.ScreenshotURLs)
	p.PadScreenshotURLs = jsonStrings(dto.PadScreenshotURLs)
	p.Kind = dto.Kind
	p.Visibility = dto.Visibility
	p.TrackViewURL = dto.TrackViewURL
	p.TrackID = dto.TrackID
	p.StartDate = dto.StartDate
	p.EndDate = dto.EndDate
	p.IsOpenSource = dto.IsOpenSource
}

func (p *Project) ToDTO() ProjectDTO {
	return ProjectDTO{
		ID:                 p.ID,
		Name:               p.Name,
		Note:               p.Note,
		Genres:             cloneStrings(p.Genres),
		Summary:            p.Summary,
		ArtworkURL:         p.ArtworkURL,
		BackgroundImageURL: p.BackgroundImageURL,
		PromoImageURL:      p.PromoImageURL,
		ScreenshotURLs:     cloneStrings(p.ScreenshotURLs),
		PadScreenshotURLs:  cloneStrings(p.PadScreenshotURLs),
		Kind:               p.Kind,
		Visibility:         p.Visibility,
		TrackViewURL:       p.TrackViewURL,
		TrackID:            p.TrackID,
		StartDate:          p.StartDate,
		EndDate:            p.EndDate,
		IsOpenSource:       p.IsOpenSource,
		UserID:             p.UserID,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func (d *ProjectDTO) RewriteURLs(rewrite func(string) string) {
	d.ArtworkURL = rewriteOptional(d.ArtworkURL, rewrite)
	d.BackgroundImageURL = rewriteOptional(d.BackgroundImageURL, rewrite)
	d.PromoImageURL = rewriteOptional(d.PromoImageURL, rewrite)
	for i := range d.ScreenshotURLs {
		d.ScreenshotURLs[i] = rewrite(d.ScreenshotURLs[i])
	}
	for i := range d.PadScreenshotURLs {
		d.PadScreenshotURLs[i] = rewrite(d.PadScreenshotURLs[i])
	}
}
