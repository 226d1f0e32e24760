package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Blog is an article. The body lives in a file keyed by Alias and Content stores its path.
type Blog struct {
	Base
	Ownership
	Alias      string                      `db:"alias" gorm:"type:text;uniqueIndex;not null"`
	Title      string                      `db:"title" gorm:"type:text;not null"`
	ArtworkURL *string                     `db:"artwork_url" gorm:"type:text"`
	Excerpt    string                      `db:"excerpt" gorm:"type:text"`
	Tags       datatypes.JSONSlice[string] `db:"tags"`
	Content    string                      `db:"content" gorm:"type:text"`

	Categories []BlogCategory `gorm:"many2many:blog_category_links;joinForeignKey:BlogID;joinReferences:BlogCategoryID"`
}

// BlogCategoryLink is the join row between a blog and a category.
type BlogCategoryLink struct {
	BlogID         uuid.UUID `db:"blog_id" gorm:"type:uuid;primaryKey"`
	BlogCategoryID uuid.UUID `db:"blog_category_id" gorm:"type:uuid;primaryKey"`
}

type BlogDTO struct {
	ID         uuid.UUID         `json:"id"`
	Alias      string            `json:"alias" validate:"required"`
	Title      string            `json:"title" validate:"required"`
	ArtworkURL *string           `json:"artwork_url,omitempty"`
	Excerpt    string            `json:"excerpt"`
	Tags       []string          `json:"tags"`
	Content    *string           `json:"content,omitempty"`
	Categories []BlogCategoryDTO `json:"categories"`
	UserID     uuid.UUID         `json:"user_id"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func BlogFromDTO(dto BlogDTO) *Blog {
	blog := &Blog{}
	blog.Merge(dto)
	return blog
}

// Merge overwrites the scalar fields. Categories and content are reconciled separately.
func (b *Blog) Merge(dto BlogDTO) {
	b.Alias = dto.Alias
	b.Title = dto.Title
	b.ArtworkURL = dto.ArtworkURL
	b.Excerpt = dto.Excerpt
	b.Tags = jsonStrings(dto.Tags)
}

// ToDTO leaves Content empty; the article body is attached by the caller when it is read.
func (b *Blog) ToDTO() BlogDTO {
	dto := BlogDTO{
		ID:         b.ID,
		Alias:      b.Alias,
		Title:      b.Title,
		ArtworkURL: b.ArtworkURL,
		Excerpt:    b.Excerpt,
		Tags:       cloneStrings(b.Tags),
		Categories: []BlogCategoryDTO{},
		UserID:     b.UserID,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
	for i := range b.Categories {
		dto.Categories = append(dto.Categories, b.Categories[i].ToDTO())
	}
	return dto
}

func (d *BlogDTO) RewriteURLs(rewrite func(string) string) {
	d.ArtworkURL = rewriteOptional(d.ArtworkURL, rewrite)
}

// CategoryIDs is the desired category set submitted with the blog.
func (d BlogDTO) CategoryIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(d.Categories))
	for _, c := range d.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// BlogListColumns is the projection used for listings; the content path is left out.
var BlogListColumns = []string{
	"id", "alias", "title", "artwork_url", "excerpt", "tags", "user_id", "created_at", "updated_at",
}
