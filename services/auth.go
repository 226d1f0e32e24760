package services

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/personal-site-backend/database"
	"github.com/rpupo63/personal-site-backend/errs"
	"github.com/rpupo63/personal-site-backend/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 18
)

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errs.NewInternalErrorWithCause("hash password", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword enforces the length rules for new passwords.
func ValidatePassword(password string) error {
	if password == "" {
		return errs.NewMissingRequiredFieldError("password")
	}
	n := utf8.RuneCountInString(password)
	if n < minPasswordLength || n > maxPasswordLength {
		return errs.NewInvalidFieldError("password", "must be between 6 and 18 characters")
	}
	return nil
}

// AuthService issues and verifies bearer tokens.
//
// A token is an HS256 JWT naming the user and carrying a unique id. It is also
// stored in the tokens table, so a token is accepted only while its signature
// verifies, its row exists and the row has not expired. Logout deletes the row.
type AuthService struct {
	tokens   *database.TokenRepo
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewAuthService(tokens *database.TokenRepo, secret string) *AuthService {
	return &AuthService{
		tokens:   tokens,
		secret:   []byte(secret),
		lifetime: models.TokenLifetime,
		now:      time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (a *AuthService) WithClock(now func() time.Time) *AuthService {
	a.now = now
	return a
}

// WithTx returns a copy of the service whose token writes join tx.
func (a *AuthService) WithTx(tx *gorm.DB) *AuthService {
	clone := *a
	clone.tokens = a.tokens.WithTx(tx)
	return &clone
}

// Issue signs and stores a new token for userID.
func (a *AuthService) Issue(ctx context.Context, userID uuid.UUID) (*models.Token, error) {
	issuedAt := a.now()
	expiresAt := issuedAt.Add(a.lifetime)

	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("sign token", err)
	}

	token := &models.Token{Token: signed, ExpiresAt: &expiresAt}
	token.SetOwner(userID)
	if err := a.tokens.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// Authenticate resolves a raw bearer value to its stored token.
func (a *AuthService) Authenticate(ctx context.Context, raw string) (*models.Token, error) {
	if raw == "" {
		return nil, errs.NewMissingTokenError()
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, errs.NewExpiredTokenError()
	case err != nil:
		return nil, errs.NewInvalidTokenError()
	}

	token, err := a.tokens.FindByValue(ctx, raw)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, errs.NewInvalidTokenError()
		}
		return nil, err
	}
	if !token.IsValid(a.now()) {
		return nil, errs.NewExpiredTokenError()
	}
	if token.UserID.String() != claims.Subject {
		return nil, errs.NewInvalidTokenError()
	}
	return token, nil
}

// Revoke deletes the stored token so it can no longer be used.
func (a *AuthService) Revoke(ctx context.Context, raw string) error {
	return a.tokens.DeleteByValue(ctx, raw)
}
