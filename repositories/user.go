//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"fmt"
	"time"

	"pairchat/domain"
	"pairchat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(email, username, hashedPassword string) (domain.User, error)
	GetUserByEmail(email string) (User, error)
	GetUserByID(id string) (domain.User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// User is the repository-level representation of a user. Unlike
// domain.User it carries the password hash, which must never cross the
// service boundary.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type diskUser struct {
	ID           string `cbor:"id"`
	Email        string `cbor:"email"`
	Username     string `cbor:"username"`
	PasswordHash string `cbor:"password_hash"`
	CreatedAt    int64  `cbor:"created_at"`
}

// Key layout:
//
//	user:id:{id}       -> cbor(diskUser)
//	user:email:{email} -> id
func userIDKey(id string) []byte {
	return []byte("user:id:" + id)
}

func userEmailKey(email string) []byte {
	return []byte("user:email:" + email)
}

// CreateUser persists a new user. The email uniqueness check and both
// writes share one transaction, so two concurrent signups with the same
// email cannot both succeed.
func (u UserRepository) CreateUser(email, username, hashedPassword string) (domain.User, error) {
	du := diskUser{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC().UnixNano(),
	}
	data, err := cbor.Marshal(du)
	if err != nil {
		return domain.User{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(userEmailKey(email)); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(userIDKey(du.ID), data); err != nil {
			return err
		}
		return txn.Set(userEmailKey(email), []byte(du.ID))
	})
	if err != nil {
		return domain.User{}, err
	}
	return toUser(du), nil
}

// GetUserByEmail resolves the email index and loads the full record,
// hash included, for credential verification.
func (u UserRepository) GetUserByEmail(email string) (User, error) {
	var du diskUser
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userEmailKey(email))
		if err != nil {
			return err
		}
		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}

		item, err = txn.Get(userIDKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &du)
		})
	})
	if err != nil {
		return User{}, err
	}
	return User{
		ID:           du.ID,
		Email:        du.Email,
		Username:     du.Username,
		PasswordHash: du.PasswordHash,
		CreatedAt:    timeFromUnixNano(du.CreatedAt),
	}, nil
}

// GetUserByID returns the display identity of a user, without the hash.
func (u UserRepository) GetUserByID(id string) (domain.User, error) {
	var du diskUser
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userIDKey(id))
		if err != nil {
			// Callers decide: a missing counterpart is not fatal when
			// annotating room listings.
			return err
		}
		return item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &du)
		})
	})
	if err != nil {
		return domain.User{}, err
	}
	return toUser(du), nil
}

func toUser(du diskUser) domain.User {
	return domain.User{
		ID:        du.ID,
		Email:     du.Email,
		Username:  du.Username,
		CreatedAt: timeFromUnixNano(du.CreatedAt),
	}
}
