package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for question and submission dates.
const DateLayout = "2006-01-02"

// Question is one daily challenge for a category.
type Question struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Text      string    `json:"text"`
	Category  Category  `json:"category"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func (q *Question) Validate() error {
	if q.ID == "" || q.Text == "" {
		return fmt.Errorf("%w: question missing id or text", ErrInvalidRecord)
	}
	if !q.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidRecord, q.Category)
	}
	if _, err := time.Parse(DateLayout, q.Date); err != nil {
		return fmt.Errorf("%w: bad question date %q", ErrInvalidRecord, q.Date)
	}
	return nil
}

// NewQuestionInput is the admin-side payload for posting a daily question.
type NewQuestionInput struct {
	Date     string   `validate:"required,datetime=2006-01-02"`
	Text     string   `validate:"required"`
	Category Category `validate:"required,oneof=dsa project"`
}
