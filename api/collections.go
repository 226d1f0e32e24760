package api

import (
	"net/http"

	"github.com/rpupo63/personal-site-backend/database"
	"github.com/rpupo63/personal-site-backend/models"
	"github.com/rpupo63/personal-site-backend/services"
	"gorm.io/gorm"
)

func always(relations ...string) func(*http.Request) []string {
	return func(*http.Request) []string { return relations }
}

func newBlogCategoryResource(db database.Database) *Resource[models.BlogCategory, models.BlogCategoryDTO] {
	return newResource(resourceConfig[models.BlogCategory, models.BlogCategoryDTO]{
		name:    "blog category",
		repo:    db.BlogCategoryRepo(),
		fromDTO: models.BlogCategoryFromDTO,
		toDTO:   (*models.BlogCategory).ToDTO,
		merge:   (*models.BlogCategory).Merge,
		beforeDelete: func(tx *gorm.DB, category *models.BlogCategory) error {
			return database.BlogCategories.ClearTarget(tx, category.ID)
		},
	})
}

func newIndustryResource(db database.Database) *Resource[models.Industry, models.IndustryDTO] {
	return newResource(resourceConfig[models.Industry, models.IndustryDTO]{
		name:    "industry",
		repo:    db.IndustryRepo(),
		fromDTO: models.IndustryFromDTO,
		toDTO:   (*models.Industry).ToDTO,
		merge:   (*models.Industry).Merge,
		beforeDelete: func(tx *gorm.DB, industry *models.Industry) error {
			return database.ExperienceIndustries.ClearTarget(tx, industry.ID)
		},
	})
}

func newSocialNetworkingServiceResource(db database.Database) *Resource[models.SocialNetworkingService, models.SocialNetworkingServiceDTO] {
	return newResource(resourceConfig[models.SocialNetworkingService, models.SocialNetworkingServiceDTO]{
		name:    "social networking service",
		repo:    db.SocialNetworkingServiceRepo(),
		fromDTO: models.SocialNetworkingServiceFromDTO,
		toDTO:   (*models.SocialNetworkingService).ToDTO,
		merge:   (*models.SocialNetworkingService).Merge,
	})
}

func newEducationResource(db database.Database) *Resource[models.Education, models.EducationDTO] {
	return newResource(resourceConfig[models.Education, models.EducationDTO]{
		name:    "education",
		repo:    db.EducationRepo(),
		owned:   true,
		fromDTO: models.EducationFromDTO,
		toDTO:   (*models.Education).ToDTO,
		merge:   (*models.Education).Merge,
	})
}

func newExperienceResource(db database.Database) *Resource[models.Experience, models.ExperienceDTO] {
	return newResource(resourceConfig[models.Experience, models.ExperienceDTO]{
		name:    "experience",
		repo:    db.ExperienceRepo(),
		owned:   true,
		fromDTO: models.ExperienceFromDTO,
		toDTO:   (*models.Experience).ToDTO,
		merge:   (*models.Experience).Merge,
		eager:   always("Industries"),
		reload:  []string{"Industries"},
		siblings: []sibling[models.ExperienceDTO]{
			{relation: database.ExperienceIndustries, desired: models.ExperienceDTO.IndustryIDs},
		},
	})
}

func newProjectResource(db database.Database, bucket services.Bucket) *Resource[models.Project, models.ProjectDTO] {
	return newResource(resourceConfig[models.Project, models.ProjectDTO]{
		name:    "project",
		repo:    db.ProjectRepo(),
		owned:   true,
		fromDTO: models.ProjectFromDTO,
		toDTO:   (*models.Project).ToDTO,
		merge:   (*models.Project).Merge,
		decorate: func(dto *models.ProjectDTO) {
			dto.RewriteURLs(bucket.URL)
		},
	})
}

func newSkillResource(db database.Database) *Resource[models.Skill, models.SkillDTO] {
	return newResource(resourceConfig[models.Skill, models.SkillDTO]{
		name:    "skill",
		repo:    db.SkillRepo(),
		owned:   true,
		fromDTO: models.SkillFromDTO,
		toDTO:   (*models.Skill).ToDTO,
		merge:   (*models.Skill).Merge,
	})
}

func newSocialNetworkingResource(db database.Database) *Resource[models.SocialNetworking, models.SocialNetworkingDTO] {
	return newResource(resourceConfig[models.SocialNetworking, models.SocialNetworkingDTO]{
		name:    "social networking",
		repo:    db.SocialNetworkingRepo(),
		owned:   true,
		fromDTO: models.SocialNetworkingFromDTO,
		toDTO:   (*models.SocialNetworking).ToDTO,
		merge:   (*models.SocialNetworking).Merge,
		eager:   always("Service"),
		reload:  []string{"Service"},
	})
}
