package models

import (
	"fmt"
	"time"
)

// Submission is one user's answer to a daily question. FileURL is empty when
// no attachment was uploaded.
type Submission struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	Message   string    `json:"message"`
	FileURL   string    `json:"file_url,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func (s *Submission) Validate() error {
	if s.ID == "" || s.UserID == "" {
		return fmt.Errorf("%w: submission missing id or user id", ErrInvalidRecord)
	}
	if s.Message == "" {
		return fmt.Errorf("%w: submission has no message", ErrInvalidRecord)
	}
	return nil
}
