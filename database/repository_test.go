package database_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/rpupo63/personal-site-backend/database"
	"github.com/rpupo63/personal-site-backend/database/dbtest"
	"github.com/rpupo63/personal-site-backend/errs"
	"github.com/rpupo63/personal-site-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestRepositoryCreateAndIdentify(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repo := db.BlogRepo()

	blog := &models.Blog{Alias: "hello", Title: "Hello"}
	blog.SetOwner(uuid.New())
	require.NoError(t, repo.Create(ctx, blog))
	require.NotEqual(t, uuid.Nil, blog.ID)

	byID, err := repo.Identified(ctx, blog.ID.String(), database.Unscoped)
	require.NoError(t, err)
	assert.Equal(t, "hello", byID.Alias)

	byAlias, err := repo.Identified(ctx, "hello", database.Unscoped)
	require.NoError(t, err)
	assert.Equal(t, blog.ID, byAlias.ID)

	_, err = db.BlogCategoryRepo().Identified(ctx, "not-a-uuid", database.Unscoped)
	assert.True(t, errs.IsNotFound(err))
}

func TestRepositoryScopeHidesOtherOwners(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repo := db.EducationRepo()
	owner, stranger := uuid.New(), uuid.New()

	education := &models.Education{School: "MIT"}
	education.SetOwner(owner)
	require.NoError(t, repo.Create(ctx, education))

	_, err := repo.Identified(ctx, education.ID.String(), database.OwnedBy(stranger))
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))

	err = repo.Delete(ctx, education, database.OwnedBy(stranger))
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))

	found, err := repo.Identified(ctx, education.ID.String(), database.OwnedBy(owner))
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, found, database.OwnedBy(owner)))

	err = repo.Delete(ctx, found, database.OwnedBy(owner))
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))
}

func TestRepositoryDuplicateIsUnprocessable(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repo := db.BlogCategoryRepo()

	require.NoError(t, repo.Create(ctx, &models.BlogCategory{Name: "swift"}))
	err := repo.Create(ctx, &models.BlogCategory{Name: "swift"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, errs.StatusOf(err))
	assert.ErrorIs(t, err, errs.ErrUniqueConstraintViolation)
}

func TestRepositoryReadAll(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repo := db.IndustryRepo()

	empty, err := repo.ReadAll(ctx, database.Unscoped)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, title := range []string{"Fintech", "Games"} {
		require.NoError(t, repo.Create(ctx, &models.Industry{Title: title}))
	}

	all, err := repo.ReadAll(ctx, database.Unscoped, database.Fields("id", "title", "created_at"))
	require.NoError(t, err)
	require.Len(t, all, 2)

	filtered, err := repo.ReadAll(ctx, database.Unscoped, database.Where("title = ?", "Games"))
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Games", filtered[0].Title)
}

func TestRepositoryUpdateAndReload(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	industry := &models.Industry{Title: "Fintech"}
	require.NoError(t, db.IndustryRepo().Create(ctx, industry))

	experience := &models.Experience{Title: "Engineer", CompanyName: "Acme", StartDate: "2020", EndDate: "2022"}
	experience.SetOwner(uuid.New())
	repo := db.ExperienceRepo()
	require.NoError(t, repo.Create(ctx, experience))

	_, err := database.ExperienceIndustries.Sync(db.DB(), experience.ID, []uuid.UUID{industry.ID})
	require.NoError(t, err)

	experience.Title = "Staff Engineer"
	require.NoError(t, repo.Update(ctx, experience))
	require.NoError(t, repo.Reload(ctx, experience, "Industries"))

	assert.Equal(t, "Staff Engineer", experience.Title)
	require.Len(t, experience.Industries, 1)
	assert.Equal(t, "Fintech", experience.Industries[0].Title)
}

func TestTokenRepo(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	tokens := db.TokenRepo()
	now := time.Now()

	past, future := now.Add(-time.Hour), now.Add(time.Hour)
	for value, expires := range map[string]*time.Time{"old": &past, "fresh": &future} {
		token := &models.Token{Token: value, ExpiresAt: expires}
		token.SetOwner(uuid.New())
		require.NoError(t, tokens.Create(ctx, token))
	}

	found, err := tokens.FindByValue(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, found.IsValid(now))

	removed, err := tokens.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = tokens.FindByValue(ctx, "old")
	assert.True(t, errs.IsNotFound(err))

	require.NoError(t, tokens.DeleteByValue(ctx, "fresh"))
	assert.True(t, errs.IsNotFound(tokens.DeleteByValue(ctx, "fresh")))
}

func TestPingReportsUnreachableDatabase(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	err = database.New(gormDB).Ping(context.Background())
	assert.EqualError(t, err, "connection refused")
}

func TestRepositoryUnknownDriverErrorIsInternal(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "industries"`)).
		WillReturnError(errors.New("connection reset by peer"))

	_, err = database.New(gormDB).IndustryRepo().ReadAll(context.Background(), database.Unscoped)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, errs.StatusOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnMismatchReport(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, db.Exec("ALTER TABLE industries ADD COLUMN legacy_code text").Error)

	report, err := models.ColumnMismatchReport(db)
	require.NoError(t, err)

	var industries *models.ColumnMismatch
	for i := range report {
		if report[i].Table == "industries" {
			industries = &report[i]
		}
		if report[i].Table == "users" {
			assert.Empty(t, report[i].Columns)
		}
	}
	require.NotNil(t, industries)
	assert.Equal(t, []string{"legacy_code"}, industries.Columns)

	var out bytes.Buffer
	models.PrintColumnMismatchReport(&out, report)
	assert.Contains(t, out.String(), "  - legacy_code")
}
