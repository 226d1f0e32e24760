package api

import (
	"time"

	"github.com/rpupo63/personal-site-backend/models"
)

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Duplicate entry for blog category"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
}

// AuthorizedResponse is returned by registration and login.
type AuthorizedResponse struct {
	User        models.UserDTO `json:"user"`
	AccessToken string         `json:"access_token"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
}

// UploadResponse carries the public URL of every stored part; URL is the first.
type UploadResponse struct {
	URL  string   `json:"url"`
	URLs []string `json:"urls"`
}

// HealthResponse reports liveness of the process and its database.
type HealthResponse struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}
