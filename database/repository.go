package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rpupo63/personal-site-backend/errs"
	"github.com/rpupo63/personal-site-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope restricts a query to rows owned by one user. The zero value is unscoped.
type Scope struct {
	OwnerID     uuid.UUID
	OwnerColumn string
}

// Unscoped matches every row.
var Unscoped = Scope{}

// OwnedBy scopes to rows whose user_id is userID.
func OwnedBy(userID uuid.UUID) Scope {
	return Scope{OwnerID: userID, OwnerColumn: models.OwnerColumn}
}

// OwnedByColumn scopes on a custom owner column, e.g. "id" for the users table.
func OwnedByColumn(userID uuid.UUID, column string) Scope {
	return Scope{OwnerID: userID, OwnerColumn: column}
}

func (s Scope) IsOwned() bool {
	return s.OwnerID != uuid.Nil
}

func (s Scope) apply(db *gorm.DB) *gorm.DB {
	if !s.IsOwned() {
		return db
	}
	column := s.OwnerColumn
	if column == "" {
		column = models.OwnerColumn
	}
	return db.Where(clause.Eq{Column: clause.Column{Name: column}, Value: s.OwnerID})
}

// QueryOption shapes a read: eager loads, projections, extra filters.
type QueryOption func(*gorm.DB) *gorm.DB

// Preload eager-loads the named relations.
func Preload(relations ...string) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		for _, relation := range relations {
			db = db.Preload(relation)
		}
		return db
	}
}

// Fields limits the selected columns.
func Fields(columns ...string) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		if len(columns) == 0 {
			return db
		}
		return db.Select(columns)
	}
}

// Where adds an arbitrary filter.
func Where(query any, args ...any) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}

func applyOptions(db *gorm.DB, opts []QueryOption) *gorm.DB {
	for _, opt := range opts {
		if opt != nil {
			db = opt(db)
		}
	}
	return db
}

// Repository is the data access object shared by every model.
// altKey names a unique column accepted in place of the id, e.g. "alias".
type Repository[M any] struct {
	db     *gorm.DB
	entity string
	altKey string
}

func NewRepository[M any](db *gorm.DB, entity, altKey string) *Repository[M] {
	return &Repository[M]{db: db, entity: entity, altKey: altKey}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *Repository[M]) GetDB() *gorm.DB {
	return r.db
}

// Entity is the name used in error messages.
func (r *Repository[M]) Entity() string {
	return r.entity
}

// WithTx returns a copy bound to tx.
func (r *Repository[M]) WithTx(tx *gorm.DB) *Repository[M] {
	return &Repository[M]{db: tx, entity: r.entity, altKey: r.altKey}
}

// Transaction runs fn in a database transaction, rolling back if it returns an error.
func (r *Repository[M]) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// Query is the builder every read starts from.
func (r *Repository[M]) Query(ctx context.Context, scope Scope) *gorm.DB {
	return scope.apply(r.db.WithContext(ctx).Model(new(M)))
}

// Identified finds one row by id or by the alternate key.
func (r *Repository[M]) Identified(ctx context.Context, key string, scope Scope, opts ...QueryOption) (*M, error) {
	q := r.Query(ctx, scope)
	if id, err := uuid.Parse(key); err == nil {
		q = q.Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}, Value: id})
	} else if r.altKey != "" {
		q = q.Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: r.altKey}, Value: key})
	} else {
		return nil, errs.NewNotFound(r.entity)
	}

	var model M
	if err := applyOptions(q, opts).First(&model).Error; err != nil {
		return nil, errs.NewDatabaseError("find", r.entity, err)
	}
	return &model, nil
}

// FindByID is Identified for callers that already hold a uuid.
func (r *Repository[M]) FindByID(ctx context.Context, id uuid.UUID, opts ...QueryOption) (*M, error) {
	return r.Identified(ctx, id.String(), Unscoped, opts...)
}

// ReadAll lists every row in scope, oldest first. An empty result is not an error.
func (r *Repository[M]) ReadAll(ctx context.Context, scope Scope, opts ...QueryOption) ([]M, error) {
	list := []M{}
	q := applyOptions(r.Query(ctx, scope), opts).Order(clause.OrderByColumn{
		Column: clause.Column{Table: clause.CurrentTable, Name: "created_at"},
	})
	if err := q.Find(&list).Error; err != nil {
		return nil, errs.NewDatabaseError("list", r.entity, err)
	}
	return list, nil
}

// Create inserts model. Relations are never written implicitly.
func (r *Repository[M]) Create(ctx context.Context, model *M) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return errs.NewDatabaseError("create", r.entity, err)
	}
	return nil
}

// Update writes every column of model back.
func (r *Repository[M]) Update(ctx context.Context, model *M) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error; err != nil {
		return errs.NewDatabaseError("update", r.entity, err)
	}
	return nil
}

// Delete removes model, restricted to scope. Nothing matched is NotFound.
func (r *Repository[M]) Delete(ctx context.Context, model *M, scope Scope) error {
	result := scope.apply(r.db.WithContext(ctx)).Delete(model)
	if result.Error != nil {
		return errs.NewDatabaseError("delete", r.entity, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound(r.entity)
	}
	return nil
}

// Reload re-reads model by primary key with the given relations.
func (r *Repository[M]) Reload(ctx context.Context, model *M, relations ...string) error {
	q := Preload(relations...)(r.db.WithContext(ctx))
	if err := q.First(model).Error; err != nil {
		return errs.NewDatabaseError("reload", r.entity, err)
	}
	return nil
}

func (r *Repository[M]) String() string {
	return fmt.Sprintf("Repository[%s]", r.entity)
}
