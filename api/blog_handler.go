package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/personal-site-backend/database"
	"github.com/rpupo63/personal-site-backend/errs"
	"github.com/rpupo63/personal-site-backend/models"
	"github.com/rpupo63/personal-site-backend/services"
	"github.com/rs/zerolog/log"
)

type blogHandler struct {
	*Resource[models.Blog, models.BlogDTO]
	db       database.Database
	articles *services.ArticleStore
}

func newBlogHandler(db database.Database, articles *services.ArticleStore, bucket services.Bucket) *blogHandler {
	h := &blogHandler{db: db, articles: articles}
	h.Resource = newResource(resourceConfig[models.Blog, models.BlogDTO]{
		name:    "blog",
		repo:    db.BlogRepo(),
		owned:   true,
		fromDTO: models.BlogFromDTO,
		toDTO:   (*models.Blog).ToDTO,
		merge:   (*models.Blog).Merge,
		eager:   always("Categories"),
		reload:  []string{"Categories"},
		fields:  models.BlogListColumns,
		filter:  h.categoryFilter,
		siblings: []sibling[models.BlogDTO]{
			{relation: database.BlogCategories, desired: models.BlogDTO.CategoryIDs},
		},
		beforeSave:  h.placeArticle,
		afterDelete: h.removeArticle,
		detail:      h.attachContent,
		decorate: func(dto *models.BlogDTO) {
			dto.RewriteURLs(bucket.URL)
		},
	})
	return h
}

func (h *blogHandler) routes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Get("/categories", redirectTo("/blog_categories"))
	r.Get("/categories/{id}", func(w http.ResponseWriter, r *http.Request) {
		redirectTo("/blog_categories/"+chi.URLParam(r, "id"))(w, r)
	})
	h.Resource.routes(r, auth)
}

// categoryFilter narrows the listing to blogs in any of ?categories=a,b, given
// as names or ids.
func (h *blogHandler) categoryFilter(r *http.Request) (database.QueryOption, error) {
	raw := r.URL.Query().Get("categories")
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var names []string
	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		names = append(names, part)
		if id, err := uuid.Parse(part); err == nil {
			ids = append(ids, id)
		}
	}
	if len(names) == 0 {
		return nil, errs.NewInvalidFieldError("categories", "no category given")
	}

	sub := h.db.DB().
		Table("blog_category_links").
		Select("blog_category_links.blog_id").
		Joins("JOIN blog_categories ON blog_categories.id = blog_category_links.blog_category_id")
	if len(ids) > 0 {
		sub = sub.Where("blog_categories.name IN ? OR blog_categories.id IN ?", names, ids)
	} else {
		sub = sub.Where("blog_categories.name IN ?", names)
	}
	return database.Where("blogs.id IN (?)", sub), nil
}

// placeArticle requires content and points the row at the alias's article
// file. The file is written once the row is committed.
func (h *blogHandler) placeArticle(_ context.Context, blog *models.Blog, dto models.BlogDTO) (func() error, error) {
	if dto.Content == nil {
		return nil, errs.NewMissingRequiredFieldError("content")
	}
	rel, err := h.articles.PathFor(blog.Alias)
	if err != nil {
		return nil, err
	}

	previous := blog.Content
	blog.Content = rel
	content := *dto.Content

	return func() error {
		if _, err := h.articles.Write(blog.Alias, content); err != nil {
			return err
		}
		if previous != "" && previous != rel {
			if err := h.articles.Remove(previous); err != nil {
				h.logger.Warn().Err(err).Str("path", previous).Msg("could not remove relocated article")
			}
		}
		return nil
	}, nil
}

func (h *blogHandler) attachContent(_ context.Context, blog *models.Blog, dto *models.BlogDTO) error {
	content, err := h.articles.Read(blog.Content)
	if errs.IsNotFound(err) {
		h.logger.Warn().Str("alias", blog.Alias).Str("path", blog.Content).Msg("article file missing")
		return nil
	}
	if err != nil {
		return err
	}
	dto.Content = &content
	return nil
}

func (h *blogHandler) removeArticle(blog *models.Blog) {
	if err := h.articles.Remove(blog.Content); err != nil {
		h.logger.Warn().Err(err).Str("path", blog.Content).Msg("could not remove article")
	}
}

func redirectTo(location string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := location
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		log.Debug().Str("from", r.URL.Path).Str("to", target).Msg("redirect")
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	}
}
