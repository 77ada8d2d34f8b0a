// Package models contains the gorm data models for the event management service.
package models

import "time"

// User represents an account that can log in to the system.
type User struct {
	ID            int64       `json:"id" gorm:"primaryKey"`
	Email         string      `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash  string      `json:"-" gorm:"not null"`
	FullName      string      `json:"full_name" gorm:"not null"`
	StudentID     *string     `json:"student_id" gorm:"uniqueIndex"`
	Role          Role        `json:"role" gorm:"type:varchar(20);not null;default:student"`
	IsActive      bool        `json:"is_active" gorm:"not null"`
	EmailVerified bool        `json:"email_verified" gorm:"not null;default:false"`
	DepartmentID  *int64      `json:"department_id"`
	Department    *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// UserSummary is the organizer projection embedded in event responses.
type UserSummary struct {
	ID       int64  `json:"id" gorm:"primaryKey"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// TableName returns the database table name for the UserSummary model.
func (UserSummary) TableName() string {
	return "users"
}

// PublicUser is the outward projection of a user. It never carries the password hash.
type PublicUser struct {
	ID            int64       `json:"id"`
	Email         string      `json:"email"`
	FullName      string      `json:"full_name"`
	StudentID     *string     `json:"student_id"`
	Role          Role        `json:"role"`
	DepartmentID  *int64      `json:"department_id"`
	Department    *Department `json:"department,omitempty"`
	EmailVerified bool        `json:"email_verified"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Public returns the outward projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Email:         u.Email,
		FullName:      u.FullName,
		StudentID:     u.StudentID,
		Role:          u.Role,
		DepartmentID:  u.DepartmentID,
		Department:    u.Department,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}
