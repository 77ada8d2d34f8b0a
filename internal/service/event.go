package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Trinhvhao/event-management/internal/apperrors"
	"github.com/Trinhvhao/event-management/internal/metrics"
	"github.com/Trinhvhao/event-management/internal/models"
	"github.com/Trinhvhao/event-management/internal/repository"
	"github.com/Trinhvhao/event-management/internal/validation"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps the row offset inside 32 bits.
	MaxPage = math.MaxInt32 / MaxPageSize

	titleMinLength = 5
	// sanitizePasses bounds how many layers of entity encoding are peeled off.
	sanitizePasses = 5
)

var (
	// textPolicy strips every tag from plain-text fields.
	textPolicy = bluemonday.StrictPolicy()
	// descriptionPolicy keeps basic formatting in descriptions.
	descriptionPolicy = bluemonday.UGCPolicy()
)

// EventPage is one page of an event listing.
type EventPage struct {
	Items      []models.Event `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// EventService implements event CRUD and the time-driven status lifecycle.
type EventService interface {
	List(ctx context.Context, filter repository.EventFilter) (*EventPage, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	Create(ctx context.Context, req validation.CreateEventRequest, actor Identity) (*models.Event, error)
	Update(ctx context.Context, id int64, req validation.UpdateEventRequest, actor Identity) (*models.Event, error)
	Delete(ctx context.Context, id int64, actor Identity) error
	UpdateStatuses(ctx context.Context) (repository.StatusTransitions, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Departments(ctx context.Context) ([]models.Department, error)
}

type eventService struct {
	events     repository.EventRepository
	references repository.ReferenceRepository
	logger     zerolog.Logger
	now        func() time.Time
}

// NewEventService creates a new EventService instance.
func NewEventService(events repository.EventRepository, references repository.ReferenceRepository, logger zerolog.Logger) EventService {
	return &eventService{
		events:     events,
		references: references,
		logger:     logger.With().Str("component", "events").Logger(),
		now:        time.Now,
	}
}

// DeriveStatus returns the status an event has at now given its time window.
func DeriveStatus(start, end, now time.Time) models.EventStatus {
	switch {
	case !end.After(now):
		return models.EventStatusCompleted
	case !start.After(now):
		return models.EventStatusOngoing
	default:
		return models.EventStatusUpcoming
	}
}

// NormalizePage clamps page and limit to their accepted ranges.
func NormalizePage(filter repository.EventFilter) repository.EventFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Page > MaxPage {
		filter.Page = MaxPage
	}
	if filter.Limit < 1 {
		filter.Limit = DefaultPageSize
	}
	if filter.Limit > MaxPageSize {
		filter.Limit = MaxPageSize
	}
	return filter
}

func (s *eventService) List(ctx context.Context, filter repository.EventFilter) (*EventPage, error) {
	filter = NormalizePage(filter)

	events, total, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.Event{}
	}

	return &EventPage{
		Items:      events,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *eventService) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Event")
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) Create(ctx context.Context, req validation.CreateEventRequest, actor Identity) (*models.Event, error) {
	start, end, err := parseWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	title := sanitizeText(req.Title)
	location := sanitizeText(req.Location)
	if err := checkText(&title, &location); err != nil {
		return nil, err
	}

	var trainingPoints int
	if req.TrainingPoints != nil {
		trainingPoints = *req.TrainingPoints
	}

	event := &models.Event{
		Title:          title,
		Description:    sanitizeDescription(req.Description),
		StartTime:      start,
		EndTime:        end,
		Location:       location,
		Capacity:       req.Capacity,
		TrainingPoints: trainingPoints,
		Status:         DeriveStatus(start, end, s.now()),
		ImageURL:       req.ImageURL,
		OrganizerID:    actor.UserID,
		CategoryID:     req.CategoryID,
		DepartmentID:   req.DepartmentID,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, referenceError(err)
	}

	s.logger.Info().
		Int64("event_id", event.ID).
		Int64("organizer_id", actor.UserID).
		Str("status", string(event.Status)).
		Msg("event created")
	return s.GetByID(ctx, event.ID)
}

// Update applies a partial update. The ownership and capacity checks run
// against a locked row inside the same transaction as the write.
func (s *eventService) Update(ctx context.Context, id int64, req validation.UpdateEventRequest, actor Identity) (*models.Event, error) {
	err := s.events.Transaction(ctx, func(tx repository.EventRepository) error {
		event, err := s.lockOwned(ctx, tx, id, actor, "You can only update your own events")
		if err != nil {
			return err
		}

		if req.Capacity != nil && int64(*req.Capacity) < event.RegistrationCount {
			return apperrors.Conflict(fmt.Sprintf("Cannot reduce capacity below current registrations (%d)", event.RegistrationCount))
		}

		changes, err := eventChanges(event, req)
		if err != nil {
			return err
		}
		return tx.Update(ctx, id, changes)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Event")
		}
		return nil, referenceError(err)
	}

	s.logger.Info().Int64("event_id", id).Int64("user_id", actor.UserID).Msg("event updated")
	return s.GetByID(ctx, id)
}

func (s *eventService) Delete(ctx context.Context, id int64, actor Identity) error {
	err := s.events.Transaction(ctx, func(tx repository.EventRepository) error {
		event, err := s.lockOwned(ctx, tx, id, actor, "You can only delete your own events")
		if err != nil {
			return err
		}

		if event.RegistrationCount > 0 {
			return apperrors.Conflict("Cannot delete event with existing registrations. Please cancel all registrations first.")
		}
		return tx.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Event")
		}
		return err
	}

	s.logger.Info().Int64("event_id", id).Int64("user_id", actor.UserID).Msg("event deleted")
	return nil
}

// lockOwned loads and locks the event, failing unless actor owns it or is an admin.
func (s *eventService) lockOwned(ctx context.Context, tx repository.EventRepository, id int64, actor Identity, forbidden string) (*models.Event, error) {
	event, err := tx.FindForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Event")
		}
		return nil, err
	}
	if event.OrganizerID != actor.UserID && actor.Role != models.RoleAdmin {
		return nil, apperrors.Forbidden(forbidden)
	}
	return event, nil
}

func (s *eventService) UpdateStatuses(ctx context.Context) (repository.StatusTransitions, error) {
	transitions, err := s.events.AdvanceStatuses(ctx, s.now().UTC())
	if err != nil {
		return repository.StatusTransitions{}, err
	}

	metrics.EventStatusTransitions.WithLabelValues(string(models.EventStatusOngoing)).Add(float64(transitions.Ongoing))
	metrics.EventStatusTransitions.WithLabelValues(string(models.EventStatusCompleted)).Add(float64(transitions.Completed))

	s.logger.Info().
		Int64("ongoing", transitions.Ongoing).
		Int64("completed", transitions.Completed).
		Msg("event statuses updated")
	return transitions, nil
}

func (s *eventService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.references.ListCategories(ctx)
}

func (s *eventService) Departments(ctx context.Context) ([]models.Department, error) {
	return s.references.ListDepartments(ctx)
}

// eventChanges builds the column updates for req, checking the merged time window.
func eventChanges(event *models.Event, req validation.UpdateEventRequest) (map[string]interface{}, error) {
	changes := map[string]interface{}{}

	var title, location *string
	if req.Title != nil {
		cleaned := sanitizeText(*req.Title)
		title = &cleaned
	}
	if req.Location != nil {
		cleaned := sanitizeText(*req.Location)
		location = &cleaned
	}
	if err := checkText(title, location); err != nil {
		return nil, err
	}
	if title != nil {
		changes["title"] = *title
	}
	if location != nil {
		changes["location"] = *location
	}
	if req.Description != nil {
		changes["description"] = sanitizeDescription(req.Description)
	}

	start, end := event.StartTime, event.EndTime
	if req.StartTime != nil {
		t, err := validation.ParseTime(*req.StartTime)
		if err != nil {
			return nil, invalidTime("start_time")
		}
		start = t.UTC()
		changes["start_time"] = start
	}
	if req.EndTime != nil {
		t, err := validation.ParseTime(*req.EndTime)
		if err != nil {
			return nil, invalidTime("end_time")
		}
		end = t.UTC()
		changes["end_time"] = end
	}
	if (req.StartTime != nil || req.EndTime != nil) && !end.After(start) {
		return nil, timeOrderError()
	}

	if req.CategoryID != nil {
		changes["category_id"] = *req.CategoryID
	}
	if req.DepartmentID != nil {
		changes["department_id"] = *req.DepartmentID
	}
	if req.Capacity != nil {
		changes["capacity"] = *req.Capacity
	}
	if req.TrainingPoints != nil {
		changes["training_points"] = *req.TrainingPoints
	}
	if req.ImageURL != nil {
		changes["image_url"] = *req.ImageURL
	}
	return changes, nil
}

func parseWindow(startValue, endValue string) (time.Time, time.Time, error) {
	start, err := validation.ParseTime(startValue)
	if err != nil {
		return time.Time{}, time.Time{}, invalidTime("start_time")
	}
	end, err := validation.ParseTime(endValue)
	if err != nil {
		return time.Time{}, time.Time{}, invalidTime("end_time")
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, timeOrderError()
	}
	return start.UTC(), end.UTC(), nil
}

func invalidTime(field string) error {
	return apperrors.Validation("Invalid input data", []apperrors.FieldError{
		{Field: field, Rule: "datetime", Message: "Invalid datetime format"},
	})
}

func timeOrderError() error {
	return apperrors.Validation("Invalid input data", []apperrors.FieldError{
		{Field: "end_time", Rule: "after_start", Message: "End time must be after start time"},
	})
}

// checkText re-applies the length rules to sanitized title and location.
// Nil fields are not being changed and are skipped.
func checkText(title, location *string) error {
	var fields []apperrors.FieldError
	if title != nil {
		switch n := utf8.RuneCountInString(*title); {
		case n == 0:
			fields = append(fields, apperrors.FieldError{Field: "title", Rule: "required", Message: "title is required"})
		case n < titleMinLength:
			fields = append(fields, apperrors.FieldError{
				Field:   "title",
				Rule:    "min",
				Message: fmt.Sprintf("title must be at least %d characters", titleMinLength),
			})
		}
	}
	if location != nil && *location == "" {
		fields = append(fields, apperrors.FieldError{Field: "location", Rule: "required", Message: "location is required"})
	}
	if len(fields) > 0 {
		return apperrors.Validation("Invalid input data", fields)
	}
	return nil
}

// sanitizeText strips tags and returns readable text. Entities are decoded
// and the result sanitized again until stable, so encoded markup cannot
// survive as raw tags.
func sanitizeText(s string) string {
	for i := 0; i < sanitizePasses; i++ {
		cleaned := html.UnescapeString(textPolicy.Sanitize(s))
		if cleaned == s {
			return strings.TrimSpace(cleaned)
		}
		s = cleaned
	}
	// Still changing: keep the escaped form.
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

func sanitizeDescription(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := strings.TrimSpace(descriptionPolicy.Sanitize(*s))
	return &cleaned
}

func referenceError(err error) error {
	if errors.Is(err, repository.ErrInvalidReference) {
		return apperrors.Validation("Category or department does not exist", nil)
	}
	return err
}
