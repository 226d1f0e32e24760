package database

import (
	"fmt"

	"github.com/rpupo63/personal-site-backend/models"
	"gorm.io/gorm"
)

// Migrate creates or updates every table, including the join tables.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Blog{}, "Categories", &models.BlogCategoryLink{}); err != nil {
		return fmt.Errorf("setup blog categories join table: %w", err)
	}
	if err := db.SetupJoinTable(&models.Experience{}, "Industries", &models.ExperienceIndustryLink{}); err != nil {
		return fmt.Errorf("setup experience industries join table: %w", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
