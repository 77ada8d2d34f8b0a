package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Trinhvhao/event-management/internal/database"
	"github.com/Trinhvhao/event-management/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens a migrated in-memory SQLite database private to the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared&_time_format=sqlite&_pragma=foreign_keys(1)", name)
	db, err := database.Open(sqlite.Open(dsn), zerolog.Nop())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(context.Background(), db))
	return db
}

type seed struct {
	category   models.Category
	department models.Department
	organizer  models.User
}

func seedReferences(t *testing.T, db *gorm.DB) seed {
	t.Helper()

	s := seed{
		category:   models.Category{Name: "Workshop"},
		department: models.Department{Code: "IT", Name: "Information Technology"},
	}
	require.NoError(t, db.Create(&s.category).Error)
	require.NoError(t, db.Create(&s.department).Error)

	s.organizer = models.User{
		Email:        "organizer@x.edu",
		PasswordHash: "hash",
		FullName:     "Organizer",
		Role:         models.RoleOrganizer,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&s.organizer).Error)
	return s
}

func (s seed) event(title string, start time.Time, duration time.Duration, status models.EventStatus) *models.Event {
	return &models.Event{
		Title:        title,
		StartTime:    start.UTC(),
		EndTime:      start.Add(duration).UTC(),
		Location:     "Hall A",
		Capacity:     10,
		Status:       status,
		OrganizerID:  s.organizer.ID,
		CategoryID:   s.category.ID,
		DepartmentID: s.department.ID,
	}
}
