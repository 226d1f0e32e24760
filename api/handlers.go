package api

import (
	"github.com/rpupo63/personal-site-backend/database"
	"github.com/rpupo63/personal-site-backend/models"
	"github.com/rpupo63/personal-site-backend/services"
)

// routeHandlers groups every handler the router mounts.
type routeHandlers struct {
	auth  authHandler
	files fileHandler
	users *userHandler
	blogs *blogHandler

	blogCategories           *Resource[models.BlogCategory, models.BlogCategoryDTO]
	industries               *Resource[models.Industry, models.IndustryDTO]
	socialNetworkingServices *Resource[models.SocialNetworkingService, models.SocialNetworkingServiceDTO]
	socialNetworking         *Resource[models.SocialNetworking, models.SocialNetworkingDTO]
	education                *Resource[models.Education, models.EducationDTO]
	experiences              *Resource[models.Experience, models.ExperienceDTO]
	projects                 *Resource[models.Project, models.ProjectDTO]
	skills                   *Resource[models.Skill, models.SkillDTO]
}

// handlerDeps are the services shared by handlers.
type handlerDeps struct {
	auth     *services.AuthService
	media    *services.MediaService
	articles *services.ArticleStore
	bucket   services.Bucket
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, deps handlerDeps) *routeHandlers {
	blogs := newBlogHandler(db, deps.articles, deps.bucket)
	social := newSocialNetworkingResource(db)
	users := newUserHandler(db, deps.auth, deps.media, deps.bucket, blogs, social)

	return &routeHandlers{
		auth:  newAuthHandler(db, deps.auth, users),
		files: newFileHandler(deps.media, deps.bucket),
		users: users,
		blogs: blogs,

		blogCategories:           newBlogCategoryResource(db),
		industries:               newIndustryResource(db),
		socialNetworkingServices: newSocialNetworkingServiceResource(db),
		socialNetworking:         social,
		education:                newEducationResource(db),
		experiences:              newExperienceResource(db),
		projects:                 newProjectResource(db, deps.bucket),
		skills:                   newSkillResource(db),
	}
}
