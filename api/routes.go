package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/personal-site-backend/services"
)

// setupRoutes mounts every resource root. Reads are public, writes need a bearer token.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, storage services.Storage) {
	auth := authMiddleware.authenticate

	r.Post("/authorize/basic", handlers.auth.login())
	r.With(auth).Delete("/unauthorized", handlers.auth.logout())

	r.Route("/users", func(r chi.Router) { handlers.users.routes(r, auth) })
	r.Route("/blog", func(r chi.Router) { handlers.blogs.routes(r, auth) })
	r.Route("/blog_categories", func(r chi.Router) { handlers.blogCategories.routes(r, auth) })
	r.Route("/industries", func(r chi.Router) { handlers.industries.routes(r, auth) })
	r.Route("/social_networking", func(r chi.Router) {
		r.Route("/services", func(r chi.Router) { handlers.socialNetworkingServices.routes(r, auth) })
		handlers.socialNetworking.routes(r, auth)
	})
	r.Route("/education", func(r chi.Router) { handlers.education.routes(r, auth) })
	r.Route("/experiences", func(r chi.Router) { handlers.experiences.routes(r, auth) })
	r.Route("/projects", func(r chi.Router) { handlers.projects.routes(r, auth) })
	r.Route("/skills", func(r chi.Router) { handlers.skills.routes(r, auth) })

	r.With(auth).Post("/images", handlers.files.upload(services.MediaImage, "image"))
	r.With(auth).Post("/files", handlers.files.upload(services.MediaFile, "file"))
	if local, ok := storage.(*services.LocalStorage); ok {
		serveLocal(r, local, services.MediaImage)
		serveLocal(r, local, services.MediaFile)
	}
}

// healthz reports process uptime and whether the database answers.
func healthz(responder Responder, ping func(*http.Request) error, uptime func() int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Status: "ok", Database: "ok", UptimeSeconds: uptime()}
		status := http.StatusOK
		if err := ping(r); err != nil {
			responder.logger.Error().Err(err).Msg("database ping failed")
			resp.Status = "degraded"
			resp.Database = "unreachable"
			status = http.StatusServiceUnavailable
		}
		responder.WriteJSONStatus(w, status, resp)
	}
}
