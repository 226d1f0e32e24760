package database

import (
	"context"

	"github.com/rpupo63/personal-site-backend/models"
	"gorm.io/gorm"
)

// Many-to-many relations reconciled on write.
var (
	BlogCategories = Relation{
		Name:         "categories",
		JoinTable:    "blog_category_links",
		OwnerColumn:  "blog_id",
		TargetColumn: "blog_category_id",
		TargetTable:  "blog_categories",
		Target:       "blog category",
	}
	ExperienceIndustries = Relation{
		Name:         "industries",
		JoinTable:    "experience_industry_links",
		OwnerColumn:  "experience_id",
		TargetColumn: "industry_id",
		TargetTable:  "industries",
		Target:       "industry",
	}
)

type Database struct {
	db                          *gorm.DB
	userRepo                    *Repository[models.User]
	tokenRepo                   *TokenRepo
	blogRepo                    *Repository[models.Blog]
	blogCategoryRepo            *Repository[models.BlogCategory]
	educationRepo               *Repository[models.Education]
	experienceRepo              *Repository[models.Experience]
	industryRepo                *Repository[models.Industry]
	projectRepo                 *Repository[models.Project]
	skillRepo                   *Repository[models.Skill]
	socialNetworkingRepo        *Repository[models.SocialNetworking]
	socialNetworkingServiceRepo *Repository[models.SocialNetworkingService]
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:                          db,
		userRepo:                    NewRepository[models.User](db, "user", "username"),
		tokenRepo:                   NewTokenRepo(db),
		blogRepo:                    NewRepository[models.Blog](db, "blog", "alias"),
		blogCategoryRepo:            NewRepository[models.BlogCategory](db, "blog category", ""),
		educationRepo:               NewRepository[models.Education](db, "education", ""),
		experienceRepo:              NewRepository[models.Experience](db, "experience", ""),
		industryRepo:                NewRepository[models.Industry](db, "industry", ""),
		projectRepo:                 NewRepository[models.Project](db, "project", ""),
		skillRepo:                   NewRepository[models.Skill](db, "skill", ""),
		socialNetworkingRepo:        NewRepository[models.SocialNetworking](db, "social networking", ""),
		socialNetworkingServiceRepo: NewRepository[models.SocialNetworkingService](db, "social networking service", ""),
	}
}

// Accessor methods for each repository

func (d Database) DB() *gorm.DB {
	return d.db
}

func (d Database) UserRepo() *Repository[models.User] {
	return d.userRepo
}

func (d Database) TokenRepo() *TokenRepo {
	return d.tokenRepo
}

func (d Database) BlogRepo() *Repository[models.Blog] {
	return d.blogRepo
}

func (d Database) BlogCategoryRepo() *Repository[models.BlogCategory] {
	return d.blogCategoryRepo
}

func (d Database) EducationRepo() *Repository[models.Education] {
	return d.educationRepo
}

func (d Database) ExperienceRepo() *Repository[models.Experience] {
	return d.experienceRepo
}

func (d Database) IndustryRepo() *Repository[models.Industry] {
	return d.industryRepo
}

func (d Database) ProjectRepo() *Repository[models.Project] {
	return d.projectRepo
}

func (d Database) SkillRepo() *Repository[models.Skill] {
	return d.skillRepo
}

func (d Database) SocialNetworkingRepo() *Repository[models.SocialNetworking] {
	return d.socialNetworkingRepo
}

func (d Database) SocialNetworkingServiceRepo() *Repository[models.SocialNetworkingService] {
	return d.socialNetworkingServiceRepo
}

// Ping checks that the primary connection answers.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
