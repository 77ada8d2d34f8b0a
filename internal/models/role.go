package models

import "database/sql/driver"

// Role is the closed set of account roles.
type Role string

const (
	RoleStudent   Role = "student"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

// Roles lists every valid role.
var Roles = []Role{RoleStudent, RoleOrganizer, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer.
func (r Role) Value() (driver.Value, error) {
	return string(r), nil
}

// Department is static reference data grouping users and events.
type Department struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	Code        string `json:"code" gorm:"uniqueIndex;not null"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
}

// TableName returns the database table name for the Department model.
func (Department) TableName() string {
	return "departments"
}

// Category is static reference data classifying events.
type Category struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	Description string `json:"description"`
}

// TableName returns the database table name for the Category model.
func (Category) TableName() string {
	return "categories"
}
