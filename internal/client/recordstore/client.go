// Package recordstore is the client for the remote record store holding the
// users, questions and submissions collections. The store itself is a hosted
// service; this package only speaks its REST surface and normalizes its
// failure modes into a small set of sentinel errors.
package recordstore

import (
	"context"
	"errors"

	"github.com/aceinapril/aceinapril/internal/client/models"
)

var (
	// ErrNotFound means the query matched no records.
	ErrNotFound = errors.New("record not found")

	// ErrUnavailable means the store could not be reached at all
	// (connection failure or timeout).
	ErrUnavailable = errors.New("record store unavailable")

	// ErrServerFault means the store was reached but answered with an
	// unexpected fault.
	ErrServerFault = errors.New("record store fault")

	// ErrBadPayload means the store answered with a payload that does not
	// match the expected record shape. Decoding fails closed.
	ErrBadPayload = errors.New("record store returned malformed payload")
)

// UserRecord is the raw users-collection row. Unlike models.User it carries
// the credential hash; it must never travel past the auth service boundary.
type UserRecord struct {
	models.User
	PasswordHash string `json:"password_hash"`
}

// Profile returns the user profile with all credential material stripped.
func (r *UserRecord) Profile() *models.User {
	u := r.User
	return &u
}

// NewUserRecord is the payload for creating a users-collection row.
type NewUserRecord struct {
	Username     string          `json:"username"`
	PasswordHash string          `json:"password_hash"`
	Role         models.Role     `json:"role"`
	Category     models.Category `json:"category"`
}

// Client is the typed CRUD surface the rest of the application consumes.
type Client interface {
	// FindUserByUsername fetches the single record whose username equals
	// username (case-sensitive exact match). Returns ErrNotFound when no
	// record matches and ErrServerFault when more than one does.
	FindUserByUsername(ctx context.Context, username string) (*UserRecord, error)

	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, rec NewUserRecord) (*models.User, error)

	// QuestionForDate fetches the daily question for a category and date
	// (models.DateLayout). Returns ErrNotFound when none is posted.
	QuestionForDate(ctx context.Context, category models.Category, date string) (*models.Question, error)
	CreateQuestion(ctx context.Context, q models.Question) (*models.Question, error)

	CreateSubmission(ctx context.Context, s models.Submission) (*models.Submission, error)
	ListSubmissionsByUser(ctx context.Context, userID string) ([]models.Submission, error)

	// Ping checks store reachability.
	Ping(ctx context.Context) error
}
