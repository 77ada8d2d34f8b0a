package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrDuplicateStudentID = errors.New("student id already exists")
	ErrDuplicate          = errors.New("duplicate record")
	ErrInvalidReference   = errors.New("referenced record does not exist")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translate maps driver errors onto the repository's sentinel errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return duplicateFor(pgErr.ConstraintName + " " + pgErr.Detail)
		case pgForeignKeyViolation:
			return ErrInvalidReference
		}
	}
	// SQLite reports "UNIQUE constraint failed: users.email".
	if msg := err.Error(); strings.Contains(msg, "UNIQUE constraint failed") {
		return duplicateFor(msg)
	} else if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return ErrInvalidReference
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrInvalidReference
	}
	return err
}

func duplicateFor(constraint string) error {
	switch {
	case strings.Contains(constraint, "student_id"):
		return ErrDuplicateStudentID
	case strings.Contains(constraint, "email"):
		return ErrDuplicateEmail
	default:
		return ErrDuplicate
	}
}
