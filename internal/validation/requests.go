package validation

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=6,max=100"`
	FullName     string  `json:"full_name" validate:"required,min=2,max=255"`
	Role         string  `json:"role" validate:"required,oneof=student organizer admin"`
	StudentID    *string `json:"student_id" validate:"omitempty,max=50"`
	DepartmentID *int64  `json:"department_id" validate:"omitempty,gt=0"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest is the password-reset request payload.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the password-reset confirmation payload.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=100"`
}

// RefreshTokenRequest is the token refresh payload.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// CreateEventRequest is the event creation payload. Times are ISO-8601 strings.
type CreateEventRequest struct {
	Title          string  `json:"title" validate:"required,min=5,max=255"`
	Description    *string `json:"description" validate:"omitempty,max=5000"`
	StartTime      string  `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime        string  `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Location       string  `json:"location" validate:"required,min=1,max=255"`
	CategoryID     int64   `json:"category_id" validate:"required,gt=0"`
	DepartmentID   int64   `json:"department_id" validate:"required,gt=0"`
	Capacity       int     `json:"capacity" validate:"required,gt=0"`
	TrainingPoints *int    `json:"training_points" validate:"required,min=0"`
	ImageURL       *string `json:"image_url" validate:"omitempty,url"`
}

// UpdateEventRequest is the partial event update payload. Nil fields are left unchanged.
type UpdateEventRequest struct {
	Title          *string `json:"title" validate:"omitempty,min=5,max=255"`
	Description    *string `json:"description" validate:"omitempty,max=5000"`
	StartTime      *string `json:"start_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime        *string `json:"end_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Location       *string `json:"location" validate:"omitempty,min=1,max=255"`
	CategoryID     *int64  `json:"category_id" validate:"omitempty,gt=0"`
	DepartmentID   *int64  `json:"department_id" validate:"omitempty,gt=0"`
	Capacity       *int    `json:"capacity" validate:"omitempty,gt=0"`
	TrainingPoints *int    `json:"training_points" validate:"omitempty,min=0"`
	ImageURL       *string `json:"image_url" validate:"omitempty,url"`
}
