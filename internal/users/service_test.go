package users

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/amiraziz/souq-backend/pkg/auth"
	"github.com/amiraziz/souq-backend/pkg/config"
	"github.com/amiraziz/souq-backend/pkg/enums"
	pkgerrors "github.com/amiraziz/souq-backend/pkg/errors"
	"github.com/amiraziz/souq-backend/pkg/logger"
)

func fastJWT() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "souq-test", ExpirationMinutes: 60}
}

// fastArgon keeps hashing cheap in tests.
func fastArgon() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func setupUsers(t *testing.T) Service {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  full_name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'customer',
  preferred_locale TEXT NOT NULL DEFAULT 'en',
  preferred_currency TEXT NOT NULL DEFAULT 'USD',
  banned INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, gdb.Exec(ddl).Error)

	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(gdb),
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		JWT:      fastJWT(),
		Password: fastArgon(),
	})
	require.NoError(t, err)
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	svc := setupUsers(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{
		Email:    "Amira@Example.com",
		Password: "correct horse",
		FullName: "Amira Aziz",
	})
	require.NoError(t, err)
	assert.Equal(t, "amira@example.com", registered.User.Email, "email normalized")
	assert.Equal(t, enums.UserRoleCustomer, registered.User.Role)
	assert.NotEmpty(t, registered.Token)

	claims, err := auth.ParseAccessToken(fastJWT(), registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	signedIn, err := svc.Login(ctx, LoginInput{Email: "amira@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, signedIn.User.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := setupUsers(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.co", Password: "long enough", FullName: "A"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "a@b.co", Password: "wrong password"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())

	// Unknown email yields the same generic message.
	_, err = svc.Login(ctx, LoginInput{Email: "nobody@b.co", Password: "whatever"})
	require.Error(t, err)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := setupUsers(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.co", Password: "long enough", FullName: "A"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "A@B.CO", Password: "long enough", FullName: "A"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestBannedUserCannotLogin(t *testing.T) {
	svc := setupUsers(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Email: "a@b.co", Password: "long enough", FullName: "A"})
	require.NoError(t, err)
	require.NoError(t, svc.SetBanned(ctx, registered.User.ID, true))

	_, err = svc.Login(ctx, LoginInput{Email: "a@b.co", Password: "long enough"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())
}

func TestResetPassword(t *testing.T) {
	svc := setupUsers(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Email: "a@b.co", Password: "old password", FullName: "A"})
	require.NoError(t, err)

	require.Error(t, svc.ResetPassword(ctx, registered.User.ID, "short"))
	require.NoError(t, svc.ResetPassword(ctx, registered.User.ID, "new password"))

	_, err = svc.Login(ctx, LoginInput{Email: "a@b.co", Password: "old password"})
	require.Error(t, err)
	_, err = svc.Login(ctx, LoginInput{Email: "a@b.co", Password: "new password"})
	require.NoError(t, err)
}
