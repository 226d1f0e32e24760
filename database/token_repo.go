package database

import (
	"context"
	"time"

	"github.com/rpupo63/personal-site-backend/errs"
	"github.com/rpupo63/personal-site-backend/models"
	"gorm.io/gorm"
)

// TokenRepo stores issued bearer tokens.
type TokenRepo struct {
	*Repository[models.Token]
}

func NewTokenRepo(db *gorm.DB) *TokenRepo {
	return &TokenRepo{NewRepository[models.Token](db, "token", "")}
}

// WithTx returns a token repository bound to tx.
func (r *TokenRepo) WithTx(tx *gorm.DB) *TokenRepo {
	return &TokenRepo{r.Repository.WithTx(tx)}
}

// FindByValue returns the token row holding value.
func (r *TokenRepo) FindByValue(ctx context.Context, value string) (*models.Token, error) {
	var token models.Token
	err := r.db.WithContext(ctx).Where("token = ?", value).First(&token).Error
	if err != nil {
		return nil, errs.NewDatabaseError("find", r.entity, err)
	}
	return &token, nil
}

// DeleteByValue revokes a token. Revoking an unknown token is NotFound.
func (r *TokenRepo) DeleteByValue(ctx context.Context, value string) error {
	result := r.db.WithContext(ctx).Where("token = ?", value).Delete(&models.Token{})
	if result.Error != nil {
		return errs.NewDatabaseError("delete", r.entity, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound(r.entity)
	}
	return nil
}

// PurgeExpired removes tokens that expired before now.
func (r *TokenRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at < ?", now).Delete(&models.Token{})
	if result.Error != nil {
		return 0, errs.NewDatabaseError("purge", r.entity, result.Error)
	}
	return result.RowsAffected, nil
}
