package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Trinhvhao/event-management/internal/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventFilter narrows and pages an event listing.
type EventFilter struct {
	Page         int
	Limit        int
	CategoryID   *int64
	DepartmentID *int64
	Status       *models.EventStatus
	Search       string
}

// Offset returns the number of rows skipped for the filter's page.
func (f EventFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// StatusTransitions counts events moved by AdvanceStatuses.
type StatusTransitions struct {
	Ongoing   int64
	Completed int64
}

// EventRepository defines the interface for event data operations.
type EventRepository interface {
	List(ctx context.Context, filter EventFilter) ([]models.Event, int64, error)
	FindByID(ctx context.Context, id int64) (*models.Event, error)
	// FindForUpdate locks the event row for the rest of the transaction and
	// loads its active registration count.
	FindForUpdate(ctx context.Context, id int64) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, id int64, changes map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	AdvanceStatuses(ctx context.Context, now time.Time) (StatusTransitions, error)
	// Transaction runs fn with a repository bound to a single database transaction.
	Transaction(ctx context.Context, fn func(tx EventRepository) error) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository instance.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

const (
	registrationCountSQL = "(SELECT COUNT(*) FROM registrations r WHERE r.event_id = events.id AND r.status <> 'cancelled') AS registration_count"
	feedbackCountSQL     = "(SELECT COUNT(*) FROM feedback f WHERE f.event_id = events.id) AS feedback_count"
)

func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Department").
		Preload("Organizer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "full_name", "email")
		})
}

func filterScope(filter EventFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.CategoryID != nil {
			db = db.Where("events.category_id = ?", *filter.CategoryID)
		}
		if filter.DepartmentID != nil {
			db = db.Where("events.department_id = ?", *filter.DepartmentID)
		}
		if filter.Status != nil {
			db = db.Where("events.status = ?", *filter.Status)
		}
		if search := strings.TrimSpace(filter.Search); search != "" {
			pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
			db = db.Where("(LOWER(events.title) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(events.description, '')) LIKE ? ESCAPE '\\')", pattern, pattern)
		}
		return db
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *eventRepository) List(ctx context.Context, filter EventFilter) ([]models.Event, int64, error) {
	var (
		events []models.Event
		total  int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return withRelations(r.db.WithContext(gctx)).
			Model(&models.Event{}).
			Select("events.*, " + registrationCountSQL).
			Scopes(filterScope(filter)).
			Order("events.start_time DESC").
			Order("events.id DESC").
			Offset(filter.Offset()).
			Limit(filter.Limit).
			Find(&events).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Model(&models.Event{}).
			Scopes(filterScope(filter)).
			Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}

	return events, total, nil
}

func (r *eventRepository) FindByID(ctx context.Context, id int64) (*models.Event, error) {
	var event models.Event
	err := withRelations(r.db.WithContext(ctx)).
		Model(&models.Event{}).
		Select("events.*, " + registrationCountSQL + ", " + feedbackCountSQL).
		Where("events.id = ?", id).
		Take(&event).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find event by id %d: %w", id, translate(err))
	}
	return &event, nil
}

func (r *eventRepository) FindForUpdate(ctx context.Context, id int64) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&event).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock event id %d: %w", id, translate(err))
	}

	err = r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("event_id = ? AND status <> ?", id, models.RegistrationStatusCancelled).
		Count(&event.RegistrationCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations for event id %d: %w", id, err)
	}
	return &event, nil
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	err := r.db.WithContext(ctx).
		Omit("Organizer", "Category", "Department").
		Create(event).Error
	if err != nil {
		return fmt.Errorf("failed to create event: %w", translate(err))
	}
	return nil
}

func (r *eventRepository) Update(ctx context.Context, id int64, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return fmt.Errorf("failed to update event id %d: %w", id, translate(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update event id %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Event{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete event id %d: %w", id, translate(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete event id %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *eventRepository) AdvanceStatuses(ctx context.Context, now time.Time) (StatusTransitions, error) {
	var transitions StatusTransitions

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ongoing := tx.Model(&models.Event{}).
			Where("status = ? AND start_time <= ? AND end_time > ?", models.EventStatusUpcoming, now, now).
			Update("status", models.EventStatusOngoing)
		if ongoing.Error != nil {
			return ongoing.Error
		}
		transitions.Ongoing = ongoing.RowsAffected

		completed := tx.Model(&models.Event{}).
			Where("status IN ? AND end_time <= ?", []models.EventStatus{models.EventStatusUpcoming, models.EventStatusOngoing}, now).
			Update("status", models.EventStatusCompleted)
		if completed.Error != nil {
			return completed.Error
		}
		transitions.Completed = completed.RowsAffected
		return nil
	})
	if err != nil {
		return StatusTransitions{}, fmt.Errorf("failed to advance event statuses: %w", err)
	}
	return transitions, nil
}

func (r *eventRepository) Transaction(ctx context.Context, fn func(tx EventRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&eventRepository{db: tx})
	})
}
