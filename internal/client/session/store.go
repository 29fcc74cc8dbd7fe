// Package session persists the authenticated user's profile across client
// restarts. It is a passive mirror of the live session owned by the auth
// service: written on login, cleared on logout, read once at startup.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aceinapril/aceinapril/internal/client/models"
	"github.com/aceinapril/aceinapril/internal/client/repositories/kv"
	"github.com/aceinapril/aceinapril/internal/logging"
)

// StorageKey is the fixed key the serialized session lives under.
const StorageKey = "aceInApril_user"

// schemaVersion is bumped when the persisted envelope shape changes.
// Entries with an unknown version are treated as corrupt and cleared.
const schemaVersion = 1

type envelope struct {
	Version int          `json:"version"`
	User    *models.User `json:"user"`
}

type Store struct {
	repo kv.Repository
	log  logging.Logger
}

func NewStore(repo kv.Repository, log logging.Logger) *Store {
	return &Store{repo: repo, log: log.With("component", "session")}
}

// Save serializes the profile and stores it under StorageKey, replacing any
// prior entry.
func (s *Store) Save(ctx context.Context, u *models.User) error {
	b, err := json.Marshal(envelope{Version: schemaVersion, User: u})
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}
	return s.repo.Set(ctx, StorageKey, b)
}

// Load reads the persisted session. It returns (nil, nil) when no session is
// stored. A malformed or unrecognized entry is self-healing: the corrupt row
// is cleared and (nil, nil) is returned so a bad write can never wedge every
// subsequent startup.
func (s *Store) Load(ctx context.Context) (*models.User, error) {
	b, err := s.repo.Get(ctx, StorageKey)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		s.heal(ctx, "unparseable session entry", err)
		return nil, nil
	}
	if env.Version != schemaVersion || env.User == nil {
		s.heal(ctx, "session entry has unknown schema", nil)
		return nil, nil
	}
	if err := env.User.Validate(); err != nil {
		s.heal(ctx, "session entry holds invalid profile", err)
		return nil, nil
	}
	return env.User, nil
}

// Clear removes the persisted session. Clearing an absent entry is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, StorageKey)
}

func (s *Store) heal(ctx context.Context, msg string, cause error) {
	args := []any{"key", StorageKey}
	if cause != nil {
		args = append(args, "error", cause)
	}
	s.log.Warn(ctx, msg+", clearing stored session", args...)
	if err := s.repo.Delete(ctx, StorageKey); err != nil {
		s.log.Error(ctx, "failed to clear corrupt session", "error", err)
	}
}
