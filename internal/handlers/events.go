package handlers

import (
	"strconv"
	"strings"

	"github.com/Trinhvhao/event-management/internal/apperrors"
	"github.com/Trinhvhao/event-management/internal/middleware"
	"github.com/Trinhvhao/event-management/internal/models"
	"github.com/Trinhvhao/event-management/internal/repository"
	"github.com/Trinhvhao/event-management/internal/response"
	"github.com/Trinhvhao/event-management/internal/service"
	"github.com/Trinhvhao/event-management/internal/validation"
	"github.com/gin-gonic/gin"
)

// EventHandler handles event HTTP requests.
type EventHandler struct {
	eventService service.EventService
	validator    *validation.Validator
}

// NewEventHandler creates a new EventHandler instance.
func NewEventHandler(eventService service.EventService, validator *validation.Validator) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		validator:    validator,
	}
}

// List godoc
// @Summary List events
// @Description Return one page of events, newest start time first
// @Tags events
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size, at most 100" default(20)
// @Param category query int false "Category ID"
// @Param department query int false "Department ID"
// @Param status query string false "Event status" Enums(upcoming, ongoing, completed, cancelled)
// @Param search query string false "Case-insensitive match on title or description"
// @Success 200 {object} response.Envelope{data=response.Page{items=[]models.Event}}
// @Failure 400 {object} response.Envelope
// @Router /api/events [get]
func (h *EventHandler) List(c *gin.Context) {
	filter, err := parseEventFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := h.eventService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, page.Items, response.NewPagination(page.Total, page.Page, page.PageSize))
}

// parseEventFilter reads page, limit, category, department, status and search.
// Unparseable numbers fall back to their defaults; an unknown status is rejected.
func parseEventFilter(c *gin.Context) (repository.EventFilter, error) {
	filter := repository.EventFilter{
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", service.DefaultPageSize),
		Search: strings.TrimSpace(c.Query("search")),
	}
	if id, ok := queryID(c, "category"); ok {
		filter.CategoryID = &id
	}
	if id, ok := queryID(c, "department"); ok {
		filter.DepartmentID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := models.EventStatus(raw)
		if !status.Valid() {
			return filter, apperrors.Validation("Invalid input data", []apperrors.FieldError{
				{Field: "status", Rule: "oneof", Message: "status must be one of upcoming, ongoing, completed, cancelled"},
			})
		}
		filter.Status = &status
	}
	return service.NormalizePage(filter), nil
}

func queryInt(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return value
}

func queryID(c *gin.Context, key string) (int64, bool) {
	value, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

// Get godoc
// @Summary Get event
// @Description Return one event with organizer, category, department and counts
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} response.Envelope{data=models.Event}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	event, err := h.eventService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, event)
}

// Create godoc
// @Summary Create event
// @Description Create an event owned by the caller. Status is derived from the time window
// @Tags events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body validation.CreateEventRequest true "Event"
// @Success 201 {object} response.Envelope{data=models.Event}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /api/events [post]
func (h *EventHandler) Create(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperrors.Unauthorized("User not authenticated"))
		return
	}

	var req validation.CreateEventRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		response.Error(c, err)
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, event, "Event created successfully")
}

// Update godoc
// @Summary Update event
// @Description Apply a partial update. Organizers may only update their own events
// @Tags events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param request body validation.UpdateEventRequest true "Fields to change"
// @Success 200 {object} response.Envelope{data=models.Event}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /api/events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperrors.Unauthorized("User not authenticated"))
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req validation.UpdateEventRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		response.Error(c, err)
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), id, req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OKMessage(c, event, "Event updated successfully")
}

// Delete godoc
// @Summary Delete event
// @Description Delete an event that has no active registrations
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /api/events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperrors.Unauthorized("User not authenticated"))
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), id, actor); err != nil {
		response.Error(c, err)
		return
	}

	response.OKMessage(c, nil, "Event deleted successfully")
}

// Categories godoc
// @Summary List categories
// @Tags events
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.Category}
// @Router /api/events/categories [get]
func (h *EventHandler) Categories(c *gin.Context) {
	categories, err := h.eventService.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, categories)
}

// Departments godoc
// @Summary List departments
// @Tags events
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.Department}
// @Router /api/events/departments [get]
func (h *EventHandler) Departments(c *gin.Context) {
	departments, err := h.eventService.Departments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, departments)
}
