package auth

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aceinapril/aceinapril/internal/client/models"
	"github.com/aceinapril/aceinapril/internal/client/recordstore"
	"github.com/aceinapril/aceinapril/internal/client/repositories/kv"
	"github.com/aceinapril/aceinapril/internal/client/session"
	"github.com/aceinapril/aceinapril/internal/logging"

	_ "modernc.org/sqlite"
)

// ---- fake record store client ----

type fakeRecords struct {
	FindUserRet   *recordstore.UserRecord
	FindUserErr   error
	FindUserCalls int
	LastUsername  string
}

func (f *fakeRecords) FindUserByUsername(ctx context.Context, username string) (*recordstore.UserRecord, error) {
	f.FindUserCalls++
	f.LastUsername = username
	if f.FindUserErr != nil {
		return nil, f.FindUserErr
	}
	if f.FindUserRet == nil {
		return nil, recordstore.ErrNotFound
	}
	rec := *f.FindUserRet
	return &rec, nil
}

func (f *fakeRecords) ListUsers(ctx context.Context) ([]models.User, error) { return nil, nil }

func (f *fakeRecords) CreateUser(ctx context.Context, rec recordstore.NewUserRecord) (*models.User, error) {
	return nil, nil
}

func (f *fakeRecords) QuestionForDate(ctx context.Context, category models.Category, date string) (*models.Question, error) {
	return nil, recordstore.ErrNotFound
}

func (f *fakeRecords) CreateQuestion(ctx context.Context, q models.Question) (*models.Question, error) {
	return nil, nil
}

func (f *fakeRecords) CreateSubmission(ctx context.Context, s models.Submission) (*models.Submission, error) {
	return nil, nil
}

func (f *fakeRecords) ListSubmissionsByUser(ctx context.Context, userID string) ([]models.Submission, error) {
	return nil, nil
}

func (f *fakeRecords) Ping(ctx context.Context) error { return nil }

// ---- helpers ----

func setupService(t *testing.T, records recordstore.Client) (*Service, *sql.DB) {
	t.Helper()

	db, err := session.OpenDatabase(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logging.NewText(io.Discard)
	sessions := session.NewStore(kv.NewSQLiteRepository(db), log)
	return NewService(records, sessions, log), db
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func aliceRecord(t *testing.T, password string) *recordstore.UserRecord {
	t.Helper()
	return &recordstore.UserRecord{
		User:         models.User{ID: "1", Username: "alice", Role: models.RoleAdmin, Category: models.CategoryDSA},
		PasswordHash: hashOf(t, password),
	}
}

func storedSession(t *testing.T, db *sql.DB) []byte {
	t.Helper()
	var v []byte
	err := db.QueryRow(`SELECT value FROM kv WHERE key = ?`, session.StorageKey).Scan(&v)
	if err == sql.ErrNoRows {
		return nil
	}
	require.NoError(t, err)
	return v
}

// ---- login ----

func TestLogin_ValidationRunsBeforeAnyRemoteCall(t *testing.T) {
	ctx := context.Background()
	fc := &fakeRecords{}
	svc, _ := setupService(t, fc)

	tests := []struct {
		name  string
		creds models.Credentials
	}{
		{"empty username", models.Credentials{Username: "", Password: "longenough"}},
		{"empty password", models.Credentials{Username: "alice", Password: ""}},
		{"password below minimum", models.Credentials{Username: "alice", Password: "seven77"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.creds)
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}

	// none of the rejected inputs may have reached the record store
	assert.Equal(t, 0, fc.FindUserCalls)
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	fc := &fakeRecords{FindUserRet: aliceRecord(t, "correctpw")}
	svc, db := setupService(t, fc)

	u, err := svc.Login(ctx, models.Credentials{Username: "alice", Password: "correctpw"})
	require.NoError(t, err)

	assert.Equal(t, "alice", fc.LastUsername)
	assert.Equal(t, "1", u.ID)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Equal(t, models.CategoryDSA, u.Category)

	current := svc.CurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, u, current)

	// the session store now mirrors the profile, with no password material
	raw := storedSession(t, db)
	require.NotNil(t, raw)
	assert.NotContains(t, string(raw), "password")
}

func TestLogin_UnknownUserAndWrongPasswordAreIndistinguishable(t *testing.T) {
	ctx := context.Background()

	missing := &fakeRecords{} // no record at all
	svcMissing, _ := setupService(t, missing)
	_, errMissing := svcMissing.Login(ctx, models.Credentials{Username: "ghost", Password: "whatever1"})

	wrong := &fakeRecords{FindUserRet: aliceRecord(t, "correctpw")}
	svcWrong, _ := setupService(t, wrong)
	_, errWrong := svcWrong.Login(ctx, models.Credentials{Username: "alice", Password: "wrongpass"})

	require.Error(t, errMissing)
	require.Error(t, errWrong)
	assert.Equal(t, KindInvalidCredentials, KindOf(errMissing))
	assert.Equal(t, KindInvalidCredentials, KindOf(errWrong))
	assert.Equal(t, errMissing.Error(), errWrong.Error())
}

func TestLogin_NetworkFailure(t *testing.T) {
	ctx := context.Background()
	fc := &fakeRecords{FindUserErr: recordstore.ErrUnavailable}
	svc, _ := setupService(t, fc)

	_, err := svc.Login(ctx, models.Credentials{Username: "alice", Password: "correctpw"})
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.ErrorIs(t, err, recordstore.ErrUnavailable)
}

func TestLogin_ServerFault(t *testing.T) {
	ctx := context.Background()
	fc := &fakeRecords{FindUserErr: errors.New("500 internal")}
	svc, _ := setupService(t, fc)

	_, err := svc.Login(ctx, models.Credentials{Username: "alice", Password: "correctpw"})
	require.Error(t, err)
	assert.Equal(t, KindServer, KindOf(err))
}

func TestLogin_FailureLeavesNoState(t *testing.T) {
	ctx := context.Background()
	fc := &fakeRecords{FindUserRet: aliceRecord(t, "correctpw")}
	svc, db := setupService(t, fc)

	_, err := svc.Login(ctx, models.Credentials{Username: "alice", Password: "wrongpass"})
	require.Error(t, err)

	assert.Nil(t, svc.CurrentUser())
	assert.Nil(t, storedSession(t, db))
}

func TestLogin_ReplacesPriorSession(t *testing.T) {
	ctx := context.Background()
	fc := &fakeRecords{FindUserRet: aliceRecord(t, "correctpw")}
	svc, _ := setupService(t, fc)

	_, err := svc.Login(ctx, models.Credentials{Username: "alice", Password: "correctpw"})
	require.NoError(t, err)

	bob := &recordstore.UserRecord{
		User:         models.User{ID: "2", Username: "bob", Role: models.RoleUser, Category: models.CategoryProject},
		PasswordHash: hashOf(t, "bobspassword"),
	}
	fc.FindUserRet = bob

	_, err = svc.Login(ctx, models.Credentials{Username: "bob", Password: "bobspassword"})
	require.NoError(t, err)

	current := svc.CurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, "bob", current.Username)
}

// ---- restoration ----

func TestRestore_NoStoredSession(t *testing.T) {
	ctx := context.Background()
	svc, db := setupService(t, &fakeRecords{})

	require.True(t, svc.Initializing())
	svc.Restore(ctx)

	assert.False(t, svc.Initializing())
	assert.Nil(t, svc.CurrentUser())
	assert.Nil(t, storedSession(t, db))
}

func TestRestore_WithStoredSession(t *testing.T) {
	ctx := context.Background()
	fc := &fakeRecords{FindUserRet: aliceRecord(t, "correctpw")}

	first, db := setupService(t, fc)
	_, err := first.Login(ctx, models.Credentials{Username: "alice", Password: "correctpw"})
	require.NoError(t, err)

	// a fresh service over the same database plays the next client start
	log := logging.NewText(io.Discard)
	second := NewService(fc, session.NewStore(kv.NewSQLiteRepository(db), log), log)
	second.Restore(ctx)

	assert.False(t, second.Initializing())
	current := second.CurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, "alice", current.Username)
	assert.Equal(t, models.RoleAdmin, current.Role)
}

func TestRestore_CorruptEntryCompletesAndHeals(t *testing.T) {
	ctx := context.Background()
	svc, db := setupService(t, &fakeRecords{})

	_, err := db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)`, session.StorageKey, []byte("###"))
	require.NoError(t, err)

	svc.Restore(ctx)

	assert.False(t, svc.Initializing())
	assert.Nil(t, svc.CurrentUser())
	assert.Nil(t, storedSession(t, db))
}

// ---- logout ----

func TestLogout_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	fc := &fakeRecords{FindUserRet: aliceRecord(t, "correctpw")}
	svc, db := setupService(t, fc)

	_, err := svc.Login(ctx, models.Credentials{Username: "alice", Password: "correctpw"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx))
	assert.Nil(t, svc.CurrentUser())
	assert.Nil(t, storedSession(t, db))

	// second logout with no active session behaves identically
	require.NoError(t, svc.Logout(ctx))
	assert.Nil(t, svc.CurrentUser())
	assert.Nil(t, storedSession(t, db))
}

func TestCurrentUser_ReturnsACopy(t *testing.T) {
	ctx := context.Background()
	fc := &fakeRecords{FindUserRet: aliceRecord(t, "correctpw")}
	svc, _ := setupService(t, fc)

	_, err := svc.Login(ctx, models.Credentials{Username: "alice", Password: "correctpw"})
	require.NoError(t, err)

	u := svc.CurrentUser()
	u.Role = models.RoleUser

	again := svc.CurrentUser()
	assert.Equal(t, models.RoleAdmin, again.Role)
}

func TestKindOf_ForeignError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}
