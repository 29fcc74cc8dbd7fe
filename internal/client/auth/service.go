// Package auth owns the live session: it verifies credentials against the
// record store, mirrors the resulting profile to the session store, and is
// the single source of truth for "who is logged in".
package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/aceinapril/aceinapril/internal/client/models"
	"github.com/aceinapril/aceinapril/internal/client/recordstore"
	"github.com/aceinapril/aceinapril/internal/client/session"
	"github.com/aceinapril/aceinapril/internal/logging"
)

// msgInvalidCredentials is shared by the unknown-username and wrong-password
// paths so the two stay indistinguishable (no username enumeration).
const msgInvalidCredentials = "invalid username or password"

type Service struct {
	records  recordstore.Client
	sessions *session.Store
	validate *validator.Validate
	log      logging.Logger

	mu           sync.Mutex
	current      *models.User
	initializing bool
}

func NewService(records recordstore.Client, sessions *session.Store, log logging.Logger) *Service {
	return &Service{
		records:      records,
		sessions:     sessions,
		validate:     validator.New(),
		log:          log.With("component", "auth"),
		initializing: true,
	}
}

// Initializing reports whether the one-time startup restoration is still in
// progress. The route guard renders only a loading placeholder while true.
func (s *Service) Initializing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initializing
}

// CurrentUser returns a copy of the authenticated profile, or nil.
func (s *Service) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// Restore runs the one-time startup restoration from the session store.
// Whatever happens, initialization completes: a corrupt entry is cleared by
// the session store itself and a storage fault only leaves the client
// unauthenticated, so the caller can never hang on an initializing state.
func (s *Service) Restore(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.initializing = false
		s.mu.Unlock()
	}()

	u, err := s.sessions.Load(ctx)
	if err != nil {
		s.log.Error(ctx, "session restoration failed", "error", err)
		return
	}
	if u == nil {
		return
	}

	s.mu.Lock()
	s.current = u
	s.mu.Unlock()
	s.log.Info(ctx, "session restored", "username", u.Username, "role", u.Role)
}

// Login verifies the supplied credentials and, on success, establishes the
// session both in memory and in the session store. On any failure nothing is
// written and the current session is left untouched.
func (s *Service) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	// Input shape is checked before anything goes over the wire.
	if err := s.validate.Struct(creds); err != nil {
		return nil, &Error{
			Kind:    KindValidation,
			Message: "username and a password of at least 8 characters are required",
			Err:     err,
		}
	}

	rec, err := s.records.FindUserByUsername(ctx, creds.Username)
	if err != nil {
		switch {
		case errors.Is(err, recordstore.ErrNotFound):
			return nil, &Error{Kind: KindInvalidCredentials, Message: msgInvalidCredentials}
		case errors.Is(err, recordstore.ErrUnavailable):
			return nil, &Error{Kind: KindNetwork, Message: "could not reach the record store, check your connection", Err: err}
		default:
			return nil, &Error{Kind: KindServer, Message: "the record store returned an unexpected error", Err: err}
		}
	}

	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(creds.Password)) != nil {
		return nil, &Error{Kind: KindInvalidCredentials, Message: msgInvalidCredentials}
	}

	// The profile that enters application state carries no credential
	// material; UserRecord stays inside this function.
	profile := rec.Profile()

	if err := s.sessions.Save(ctx, profile); err != nil {
		// The login itself succeeded; losing the durable mirror only
		// means the session won't survive a restart.
		s.log.Warn(ctx, "failed to persist session", "error", err)
	}

	s.mu.Lock()
	s.current = profile
	s.mu.Unlock()

	s.log.Info(ctx, "login succeeded", "username", profile.Username, "role", profile.Role)
	return profile, nil
}

// Logout destroys the session. It is idempotent: logging out with no active
// session performs the same steps without error.
func (s *Service) Logout(ctx context.Context) error {
	err := s.sessions.Clear(ctx)

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err != nil {
		// In-memory state is already gone; surface the storage fault so
		// the caller knows the durable mirror may linger.
		return &Error{Kind: KindServer, Message: "failed to clear stored session", Err: err}
	}
	s.log.Info(ctx, "logged out")
	return nil
}
