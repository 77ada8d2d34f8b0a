package models

import (
	"database/sql/driver"
	"time"
)

// EventStatus is derived from the event's time window.
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// EventStatuses lists every valid event status.
var EventStatuses = []EventStatus{
	EventStatusUpcoming,
	EventStatusOngoing,
	EventStatusCompleted,
	EventStatusCancelled,
}

// Valid reports whether s is one of the known statuses.
func (s EventStatus) Valid() bool {
	for _, status := range EventStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer.
func (s EventStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Event is an activity owned by an organizer.
type Event struct {
	ID             int64       `json:"id" gorm:"primaryKey"`
	Title          string      `json:"title" gorm:"type:varchar(255);not null"`
	Description    *string     `json:"description" gorm:"type:text"`
	StartTime      time.Time   `json:"start_time" gorm:"not null;index"`
	EndTime        time.Time   `json:"end_time" gorm:"not null"`
	Location       string      `json:"location" gorm:"type:varchar(255);not null"`
	Capacity       int         `json:"capacity" gorm:"not null"`
	TrainingPoints int         `json:"training_points" gorm:"not null;default:0"`
	Status         EventStatus `json:"status" gorm:"type:varchar(20);not null;default:upcoming;index"`
	ImageURL       *string     `json:"image_url"`
	OrganizerID    int64       `json:"organizer_id" gorm:"not null;index"`
	CategoryID     int64       `json:"category_id" gorm:"not null;index"`
	DepartmentID   int64       `json:"department_id" gorm:"not null;index"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	Organizer  *UserSummary `json:"organizer,omitempty" gorm:"foreignKey:OrganizerID"`
	Category   *Category    `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Department *Department  `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`

	// Populated by repository queries that select the counts.
	RegistrationCount int64 `json:"registration_count" gorm:"->;-:migration"`
	FeedbackCount     int64 `json:"feedback_count" gorm:"->;-:migration"`
}

// TableName returns the database table name for the Event model.
func (Event) TableName() string {
	return "events"
}

// RegistrationStatus tracks a student's registration for an event.
type RegistrationStatus string

const (
	RegistrationStatusRegistered RegistrationStatus = "registered"
	RegistrationStatusAttended   RegistrationStatus = "attended"
	RegistrationStatusCancelled  RegistrationStatus = "cancelled"
)

// Value implements driver.Valuer.
func (s RegistrationStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Registration associates a user with an event.
type Registration struct {
	ID           int64              `json:"id" gorm:"primaryKey"`
	EventID      int64              `json:"event_id" gorm:"not null;uniqueIndex:idx_registration_event_user"`
	UserID       int64              `json:"user_id" gorm:"not null;uniqueIndex:idx_registration_event_user"`
	Status       RegistrationStatus `json:"status" gorm:"type:varchar(20);not null;default:registered"`
	RegisteredAt time.Time          `json:"registered_at" gorm:"autoCreateTime"`
	Event        *Event             `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	User         *User              `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for the Registration model.
func (Registration) TableName() string {
	return "registrations"
}

// Feedback is a participant's rating of an event.
type Feedback struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	EventID   int64     `json:"event_id" gorm:"not null;index"`
	UserID    int64     `json:"user_id" gorm:"not null;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	Event     *Event    `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for the Feedback model.
func (Feedback) TableName() string {
	return "feedback"
}
