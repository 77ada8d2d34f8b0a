package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"pg email unique", &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}, ErrDuplicateEmail},
		{"pg student id unique", &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_student_id"}, ErrDuplicateStudentID},
		{"pg other unique", &pgconn.PgError{Code: "23505", ConstraintName: "idx_registration_event_user"}, ErrDuplicate},
		{"pg foreign key", &pgconn.PgError{Code: "23503", ConstraintName: "fk_events_category"}, ErrInvalidReference},
		{"wrapped pg error", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", Detail: "Key (email)=(a@x.edu) already exists."}), ErrDuplicateEmail},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: users.student_id (2067)"), ErrDuplicateStudentID},
		{"sqlite foreign key", errors.New("constraint failed: FOREIGN KEY constraint failed (787)"), ErrInvalidReference},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, ErrDuplicate},
		{"gorm foreign key", gorm.ErrForeignKeyViolated, ErrInvalidReference},
		{"passthrough", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.err)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}
