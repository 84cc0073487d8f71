package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// RegisterRequest is the request body for creating an account.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate validates the registration request.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.Password, validation.Required, validation.Length(4, 72)),
	)
}

// LoginRequest is the request body for obtaining an access token.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate validates the login request.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// CreateHabitRequest is the request body for creating a habit. Any
// client-supplied owner field is simply not part of the schema.
type CreateHabitRequest struct {
	Name     string  `json:"name"`
	Status   string  `json:"status"`
	Category *string `json:"category"`
}

// Validate validates the create request.
func (r CreateHabitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
	)
}

// UpdateHabitRequest is the request body for a full habit update.
type UpdateHabitRequest struct {
	Name     string  `json:"name"`
	Status   string  `json:"status"`
	Category *string `json:"category"`
}

// Validate validates the update request.
func (r UpdateHabitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Status, validation.Required),
	)
}

// PatchStatusRequest is the request body for a status-only update.
type PatchStatusRequest struct {
	Status string `json:"status"`
}

// Validate validates the patch request.
func (r PatchStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required),
	)
}

// CreateMoodRequest is the request body for logging a mood entry.
type CreateMoodRequest struct {
	Text    string `json:"text"`
	HabitID *int64 `json:"habit_id"`
}

// Validate validates the mood request.
func (r CreateMoodRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required),
	)
}
