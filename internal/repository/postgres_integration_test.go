//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Trinhvhao/event-management/internal/database"
	"github.com/Trinhvhao/event-management/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("events_test"),
		tcpostgres.WithUsername("events"),
		tcpostgres.WithPassword("events-test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("Failed to terminate PostgreSQL container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable", "TimeZone=UTC")
	require.NoError(t, err)

	db, err := database.Open(postgres.Open(dsn), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(ctx, db))
	return db
}

func TestPostgres_UniqueViolations(t *testing.T) {
	repo := NewUserRepository(setupPostgres(t))
	ctx := context.Background()
	sid := "SV100"

	require.NoError(t, repo.Create(ctx, newUser("pg@x.edu", &sid)))

	other := "SV101"
	assert.ErrorIs(t, repo.Create(ctx, newUser("pg@x.edu", &other)), ErrDuplicateEmail)
	assert.ErrorIs(t, repo.Create(ctx, newUser("pg2@x.edu", &sid)), ErrDuplicateStudentID)
}

func TestPostgres_ForeignKeyAndLocking(t *testing.T) {
	db := setupPostgres(t)
	s := seedReferences(t, db)
	repo := NewEventRepository(db)
	ctx := context.Background()

	orphan := s.event("Orphan event", time.Now(), time.Hour, models.EventStatusUpcoming)
	orphan.DepartmentID = 999
	assert.ErrorIs(t, repo.Create(ctx, orphan), ErrInvalidReference)

	event := s.event("Locked event", time.Now().Add(time.Hour), time.Hour, models.EventStatusUpcoming)
	require.NoError(t, repo.Create(ctx, event))

	err := repo.Transaction(ctx, func(tx EventRepository) error {
		locked, err := tx.FindForUpdate(ctx, event.ID)
		if err != nil {
			return err
		}
		return tx.Update(ctx, locked.ID, map[string]interface{}{"capacity": locked.Capacity + 5})
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Capacity)
}

func TestPostgres_SearchAndAdvance(t *testing.T) {
	db := setupPostgres(t)
	s := seedReferences(t, db)
	repo := NewEventRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, s.event("Career fair", now.Add(-time.Hour), 2*time.Hour, models.EventStatusUpcoming)))
	require.NoError(t, repo.Create(ctx, s.event("Robotics demo", now.Add(24*time.Hour), time.Hour, models.EventStatusUpcoming)))

	events, total, err := repo.List(ctx, EventFilter{Page: 1, Limit: 10, Search: "CAREER"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, events, 1)

	moved, err := repo.AdvanceStatuses(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, StatusTransitions{Ongoing: 1}, moved)
}
