package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/personal-site-backend/database"
	"github.com/rpupo63/personal-site-backend/errs"
	"github.com/rpupo63/personal-site-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// sibling binds a many-to-many relation to the ids a DTO asks for.
type sibling[D any] struct {
	relation database.Relation
	desired  func(D) []uuid.UUID
}

// resourceConfig holds the hooks that specialise a resource.
type resourceConfig[M any, D any] struct {
	name string
	repo *database.Repository[M]

	fromDTO func(D) *M
	toDTO   func(*M) D
	merge   func(*M, D)

	// owned resources stamp the caller on create and scope update and delete to
	// rows whose ownerColumn equals the caller.
	owned       bool
	ownerColumn string

	// eager lists the relations loaded for reads.
	eager func(*http.Request) []string
	// reload lists the relations loaded after a write.
	reload []string
	// fields is the readAll projection; empty selects every column.
	fields []string
	// filter narrows readAll from query parameters. A nil option leaves it unfiltered.
	filter func(*http.Request) (database.QueryOption, error)

	siblings []sibling[D]

	// beforeSave runs inside the write transaction after the merge. The returned
	// func, if any, runs after commit.
	beforeSave func(ctx context.Context, model *M, dto D) (func() error, error)
	// beforeDelete runs inside the delete transaction.
	beforeDelete func(tx *gorm.DB, model *M) error
	afterDelete  func(model *M)

	// decorate adjusts every outgoing DTO.
	decorate func(*D)
	// detail adds what only single-record responses carry.
	detail func(ctx context.Context, model *M, dto *D) error
}

// Resource derives create, read, readAll, update and delete handlers from a model/DTO pair.
type Resource[M any, D any] struct {
	cfg       resourceConfig[M, D]
	responder Responder
	logger    zerolog.Logger
}

func newResource[M any, D any](cfg resourceConfig[M, D]) *Resource[M, D] {
	if cfg.ownerColumn == "" {
		cfg.ownerColumn = models.OwnerColumn
	}
	logger := log.With().Str("handlerName", cfg.name+"Resource").Logger()
	return &Resource[M, D]{
		cfg:       cfg,
		responder: NewResponder(logger),
		logger:    logger,
	}
}

// routes mounts the five operations; writes go through auth.
func (res *Resource[M, D]) routes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Get("/", res.readAll())
	r.Get("/{id}", res.read())
	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Post("/", res.create())
		r.Put("/{id}", res.update())
		r.Delete("/{id}", res.delete())
	})
}

func (res *Resource[M, D]) eagerFor(r *http.Request) []string {
	if res.cfg.eager == nil {
		return nil
	}
	return res.cfg.eager(r)
}

// writeScope is the scope update and delete run under.
func (res *Resource[M, D]) writeScope(ctx context.Context) (database.Scope, error) {
	if !res.cfg.owned {
		return database.Unscoped, nil
	}
	p, err := requirePrincipal(ctx)
	if err != nil {
		return database.Scope{}, err
	}
	return database.OwnedByColumn(p.UserID, res.cfg.ownerColumn), nil
}

func (res *Resource[M, D]) decodeDTO(w http.ResponseWriter, r *http.Request) (D, error) {
	var dto D
	if err := decodeJSON(w, r, &dto); err != nil {
		return dto, err
	}
	if err := validateDTO(dto); err != nil {
		return dto, err
	}
	return dto, nil
}

// save runs the scalar write, sibling reconciliation and reload as one transaction.
func (res *Resource[M, D]) save(ctx context.Context, tx *gorm.DB, model *M, dto D, write func(*database.Repository[M]) error) (func() error, error) {
	repo := res.cfg.repo.WithTx(tx)

	var afterCommit func() error
	if res.cfg.beforeSave != nil {
		var err error
		if afterCommit, err = res.cfg.beforeSave(ctx, model, dto); err != nil {
			return nil, err
		}
	}

	if err := write(repo); err != nil {
		return nil, err
	}

	id := idOf(model)
	for _, s := range res.cfg.siblings {
		delta, err := s.relation.Sync(tx, id, s.desired(dto))
		if err != nil {
			return nil, err
		}
		res.logger.Debug().
			Str("relation", s.relation.Name).
			Str("id", id.String()).
			Int("attached", len(delta.Attach)).
			Int("detached", len(delta.Detach)).
			Msg("reconciled siblings")
	}

	if err := repo.Reload(ctx, model, res.cfg.reload...); err != nil {
		return nil, err
	}
	return afterCommit, nil
}

func (res *Resource[M, D]) present(ctx context.Context, model *M, detailed bool) (D, error) {
	dto := res.cfg.toDTO(model)
	if detailed && res.cfg.detail != nil {
		if err := res.cfg.detail(ctx, model, &dto); err != nil {
			return dto, err
		}
	}
	if res.cfg.decorate != nil {
		res.cfg.decorate(&dto)
	}
	return dto, nil
}

func (res *Resource[M, D]) writeModel(w http.ResponseWriter, r *http.Request, model *M) {
	dto, err := res.present(r.Context(), model, true)
	if err != nil {
		res.responder.WriteError(w, err)
		return
	}
	res.responder.WriteJSON(w, dto)
}

// create decodes a DTO, stamps the owner and persists it.
func (res *Resource[M, D]) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		dto, err := res.decodeDTO(w, r)
		if err != nil {
			res.responder.WriteError(w, err)
			return
		}

		model := res.cfg.fromDTO(dto)
		if res.cfg.owned {
			p, err := requirePrincipal(ctx)
			if err != nil {
				res.responder.WriteError(w, err)
				return
			}
			stampOwner(model, p.UserID)
		}

		var afterCommit func() error
		err = res.cfg.repo.Transaction(ctx, func(tx *gorm.DB) error {
			var err error
			afterCommit, err = res.save(ctx, tx, model, dto, func(repo *database.Repository[M]) error {
				return repo.Create(ctx, model)
			})
			return err
		})
		if err != nil {
			res.responder.WriteError(w, wrapDatabaseError("create", res.cfg.name, err))
			return
		}
		if afterCommit != nil {
			if err := afterCommit(); err != nil {
				res.responder.WriteError(w, err)
				return
			}
		}

		res.writeModel(w, r, model)
	}
}

// read resolves the path identifier by id or alternate key.
func (res *Resource[M, D]) read() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "id")
		model, err := res.cfg.repo.Identified(r.Context(), key, database.Unscoped, database.Preload(res.eagerFor(r)...))
		if err != nil {
			res.responder.WriteError(w, err)
			return
		}
		res.writeModel(w, r, model)
	}
}

// readAll lists every record. An empty table yields an empty list.
func (res *Resource[M, D]) readAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := []database.QueryOption{
			database.Preload(res.eagerFor(r)...),
			database.Fields(res.cfg.fields...),
		}
		if res.cfg.filter != nil {
			filter, err := res.cfg.filter(r)
			if err != nil {
				res.responder.WriteError(w, err)
				return
			}
			if filter != nil {
				opts = append(opts, filter)
			}
		}

		list, err := res.cfg.repo.ReadAll(r.Context(), database.Unscoped, opts...)
		if err != nil {
			res.responder.WriteError(w, err)
			return
		}

		dtos := make([]D, 0, len(list))
		for i := range list {
			dto, err := res.present(r.Context(), &list[i], false)
			if err != nil {
				res.responder.WriteError(w, err)
				return
			}
			dtos = append(dtos, dto)
		}
		res.responder.WriteJSON(w, dtos)
	}
}

// update overwrites every field of an existing record with the submitted DTO.
func (res *Resource[M, D]) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		key := chi.URLParam(r, "id")

		scope, err := res.writeScope(ctx)
		if err != nil {
			res.responder.WriteError(w, err)
			return
		}

		dto, err := res.decodeDTO(w, r)
		if err != nil {
			res.responder.WriteError(w, err)
			return
		}

		var model *M
		var afterCommit func() error
		err = res.cfg.repo.Transaction(ctx, func(tx *gorm.DB) error {
			var err error
			model, err = res.cfg.repo.WithTx(tx).Identified(ctx, key, scope)
			if err != nil {
				return err
			}
			res.cfg.merge(model, dto)
			afterCommit, err = res.save(ctx, tx, model, dto, func(repo *database.Repository[M]) error {
				return repo.Update(ctx, model)
			})
			return err
		})
		if err != nil {
			res.responder.WriteError(w, wrapDatabaseError("update", res.cfg.name, err))
			return
		}
		if afterCommit != nil {
			if err := afterCommit(); err != nil {
				res.responder.WriteError(w, err)
				return
			}
		}

		res.writeModel(w, r, model)
	}
}

// delete detaches siblings and removes the record. Absent and not-owned ids are 404.
func (res *Resource[M, D]) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		key := chi.URLParam(r, "id")

		scope, err := res.writeScope(ctx)
		if err != nil {
			res.responder.WriteError(w, err)
			return
		}

		var model *M
		err = res.cfg.repo.Transaction(ctx, func(tx *gorm.DB) error {
			repo := res.cfg.repo.WithTx(tx)
			var err error
			if model, err = repo.Identified(ctx, key, scope); err != nil {
				return err
			}
			id := idOf(model)
			for _, s := range res.cfg.siblings {
				if err := s.relation.Clear(tx, id); err != nil {
					return err
				}
			}
			if res.cfg.beforeDelete != nil {
				if err := res.cfg.beforeDelete(tx, model); err != nil {
					return err
				}
			}
			return repo.Delete(ctx, model, scope)
		})
		if err != nil {
			res.responder.WriteError(w, wrapDatabaseError("delete", res.cfg.name, err))
			return
		}
		if res.cfg.afterDelete != nil {
			res.cfg.afterDelete(model)
		}

		res.responder.WriteSuccess(w, fmt.Sprintf("%s deleted successfully", res.cfg.name))
	}
}

func idOf(model any) uuid.UUID {
	if m, ok := model.(interface{ GetID() uuid.UUID }); ok {
		return m.GetID()
	}
	return uuid.Nil
}

func stampOwner(model any, userID uuid.UUID) {
	if m, ok := model.(models.Owned); ok {
		m.SetOwner(userID)
	}
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}
