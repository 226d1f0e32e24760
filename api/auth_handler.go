package api

import (
	"errors"
	"net/http"

	"github.com/rpupo63/personal-site-backend/database"
	"github.com/rpupo63/personal-site-backend/errs"
	"github.com/rpupo63/personal-site-backend/models"
	"github.com/rpupo63/personal-site-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
	auth      *services.AuthService
	users     *userHandler
}

func newAuthHandler(db database.Database, auth *services.AuthService, users *userHandler) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()
	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
		auth:      auth,
		users:     users,
	}
}

// login verifies HTTP Basic credentials and issues a bearer token.
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		username, password, ok := r.BasicAuth()
		if !ok || username == "" {
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		var user models.User
		err := h.db.UserRepo().Query(ctx, database.Unscoped).Where("username = ?", username).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "user", err))
			return
		}
		if !services.CheckPassword(user.PasswordHash, password) {
			h.logger.Warn().Str("username", username).Msg("rejected login")
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		token, err := h.auth.Issue(ctx, user.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.users.writeAuthorized(w, r, &user, token)
	}
}

// logout revokes the token the request was authenticated with.
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := requirePrincipal(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.auth.Revoke(r.Context(), p.Token); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, "logged out successfully")
	}
}
