package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Limits enforced on task fields, matching the backing columns.
const (
	MaxTitleLen       = 255
	MaxDescriptionLen = 1000
)

// Task represents a persisted to-do item.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// ErrTaskNotFound is returned when an operation references an unknown task id.
var ErrTaskNotFound = errors.New("task not found")

// ValidationError describes a rejected task field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidateNew checks the user-supplied fields of a task about to be created.
// The title must be non-empty after trimming; both fields are length-capped.
// The title is validated in its trimmed form, which is what gets stored.
func ValidateNew(title, description string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return &ValidationError{Field: "title", Err: errors.New("must not be empty")}
	}
	if len(title) > MaxTitleLen {
		return &ValidationError{Field: "title", Err: fmt.Errorf("must be at most %d characters", MaxTitleLen)}
	}
	if len(description) > MaxDescriptionLen {
		return &ValidationError{Field: "description", Err: fmt.Errorf("must be at most %d characters", MaxDescriptionLen)}
	}
	return nil
}
