package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxCategoryLength    = 50
)

var ErrTaskNotFound = errors.New("task not found")

// ErrOwnerMissing means a verified token references a user that no longer exists.
var ErrOwnerMissing = errors.New("task owner does not exist")

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UserID      string    `json:"userId"`
}

// OwnedBy reports whether userID owns the task.
func (t *Task) OwnedBy(userID string) bool {
	return userID != "" && t.UserID == userID
}

// ValidateTaskFields checks the user-editable fields shared by create and update.
func ValidateTaskFields(title, description, category string) error {
	if err := checkText("title", title, MaxTitleLength); err != nil {
		return err
	}
	if err := checkText("description", description, MaxDescriptionLength); err != nil {
		return err
	}
	return checkText("category", category, MaxCategoryLength)
}

func checkText(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(field, "is required")
	}
	if utf8.RuneCountInString(value) > max {
		return NewValidationError(field, "must be at most "+itoa(max)+" characters")
	}
	return nil
}
