package repositories

import (
	"testing"

	"pairchat/errors"

	"github.com/stretchr/testify/require"
)

func Test_Create_And_Get_User(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewUserRepository(db)

	created, err := repository.CreateUser("alice@example.com", "alice", "$argon2id$fake")
	req.NoError(err)
	req.NotEmpty(created.ID)
	req.Equal("alice", created.Username)

	byEmail, err := repository.GetUserByEmail("alice@example.com")
	req.NoError(err)
	req.Equal(created.ID, byEmail.ID)
	req.Equal("$argon2id$fake", byEmail.PasswordHash)

	byID, err := repository.GetUserByID(created.ID)
	req.NoError(err)
	req.Equal("alice@example.com", byID.Email)
	req.Equal("alice", byID.Username)
}

func Test_Create_User_Duplicate_Email(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewUserRepository(db)

	_, err := repository.CreateUser("alice@example.com", "alice", "hash")
	req.NoError(err)

	_, err = repository.CreateUser("alice@example.com", "alice2", "hash")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func Test_Get_Unknown_User(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewUserRepository(db)

	_, err := repository.GetUserByEmail("ghost@example.com")
	req.Error(err)

	_, err = repository.GetUserByID("no-such-id")
	req.Error(err)
}
