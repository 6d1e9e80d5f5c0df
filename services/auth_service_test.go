package services

import (
	"testing"
	"time"

	"pairchat/auth"
	"pairchat/errors"
	"pairchat/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) (IAuthService, auth.TokenIssuer) {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	issuer := auth.NewTokenIssuer("auth-service-test-secret", time.Hour)
	return NewAuthService(repositories.NewUserRepository(db), issuer), issuer
}

func TestRegisterAndLogin(t *testing.T) {
	req := require.New(t)
	service, issuer := newTestAuthService(t)

	token, user, err := service.Register("alice@example.com", "alice", "ComplexPass123!")
	req.NoError(err)
	req.NotEmpty(token)
	req.Equal("alice", user.Username)

	claims, err := issuer.Validate(string(token))
	req.NoError(err)
	req.Equal(user.ID, claims.UserID)

	token, loggedIn, err := service.Login("alice@example.com", "ComplexPass123!")
	req.NoError(err)
	req.NotEmpty(token)
	req.Equal(user.ID, loggedIn.ID)
}

func TestRegister_RejectsWeakPassword(t *testing.T) {
	req := require.New(t)
	service, _ := newTestAuthService(t)

	_, _, err := service.Register("alice@example.com", "alice", "weak")
	req.ErrorIs(err, errors.ErrInvalidPassword)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	req := require.New(t)
	service, _ := newTestAuthService(t)

	_, _, err := service.Register("alice@example.com", "alice", "ComplexPass123!")
	req.NoError(err)

	_, _, err = service.Register("alice@example.com", "alice2", "ComplexPass123!")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	req := require.New(t)
	service, _ := newTestAuthService(t)

	_, _, err := service.Register("alice@example.com", "alice", "ComplexPass123!")
	req.NoError(err)

	// Wrong password and unknown user collapse to the same error.
	_, _, err = service.Login("alice@example.com", "WrongPass123!")
	req.ErrorIs(err, errors.ErrInvalidCredentials)

	_, _, err = service.Login("ghost@example.com", "ComplexPass123!")
	req.ErrorIs(err, errors.ErrInvalidCredentials)
}
