//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"

	"pairchat/domain"
	"pairchat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
)

// joinRetries bounds optimistic-transaction retries when concurrent
// joins against the same room invalidate each other's read sets.
const joinRetries = 16

type IRoomRepository interface {
	CreateRoom(room domain.Room) error
	GetRoom(roomID string) (domain.Room, error)
	JoinRoom(token, joinerID string) (domain.Room, error)
	ListRoomsForUser(userID string) ([]domain.Room, error)
}

type RoomRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRoomRepository(db *badger.DB, log *slog.Logger) RoomRepository {
	return RoomRepository{db: db, log: log}
}

// diskRoom is the persisted shape of a room.
type diskRoom struct {
	ID           string   `cbor:"id"`
	InviteToken  string   `cbor:"invite_token"`
	CreatorID    string   `cbor:"creator_id"`
	Participants []string `cbor:"participants"`
	CreatedAt    int64    `cbor:"created_at"`
	Active       bool     `cbor:"active"`
}

// Key layout:
//
//	room:{room_id}            -> cbor(diskRoom)
//	invite:{token}            -> room_id
//	member:{user_id}:{room_id} -> empty (membership index for listing)
//
// The invite index is written once at creation and never deleted: a full
// room keeps its token, the token simply stops admitting joiners.
func roomKey(roomID string) []byte {
	return []byte("room:" + roomID)
}

func inviteKey(token string) []byte {
	return []byte("invite:" + token)
}

func memberKey(userID, roomID string) []byte {
	return []byte("member:" + userID + ":" + roomID)
}

// CreateRoom persists a freshly built room together with its invite and
// membership indexes.
func (r RoomRepository) CreateRoom(room domain.Room) error {
	data, err := cbor.Marshal(fromRoom(room))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(roomKey(room.ID), data); err != nil {
			return err
		}
		if err := txn.Set(inviteKey(room.InviteToken), []byte(room.ID)); err != nil {
			return err
		}
		return txn.Set(memberKey(room.CreatorID, room.ID), []byte{})
	})
}

func (r RoomRepository) GetRoom(roomID string) (domain.Room, error) {
	var dr diskRoom
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(roomKey(roomID))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrRoomNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &dr)
		})
	})
	if err != nil {
		return domain.Room{}, err
	}
	return toRoom(dr), nil
}

// JoinRoom resolves the invite token and claims the remaining seat for
// joinerID. The read-check-write of the participant set runs inside a
// single Badger transaction: when two third parties race for the last
// seat, the loser's commit is rejected with ErrConflict, the attempt is
// replayed against fresh state and observes the room full. Re-joining a
// room one already belongs to is a no-op, not an error.
func (r RoomRepository) JoinRoom(token, joinerID string) (domain.Room, error) {
	for attempt := 1; attempt <= joinRetries; attempt++ {
		room, err := r.tryJoin(token, joinerID)
		if stderrors.Is(err, badger.ErrConflict) {
			r.log.Debug("join conflict, replaying transaction",
				"joiner_id", joinerID,
				"attempt", attempt)
			continue
		}
		return room, err
	}
	return domain.Room{}, fmt.Errorf("join room: retries exhausted: %w", badger.ErrConflict)
}

func (r RoomRepository) tryJoin(token, joinerID string) (domain.Room, error) {
	var room domain.Room
	err := r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(inviteKey(token))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrRoomNotFound
		}
		if err != nil {
			return err
		}
		var roomID string
		if err := item.Value(func(val []byte) error {
			roomID = string(val)
			return nil
		}); err != nil {
			return err
		}

		item, err = txn.Get(roomKey(roomID))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrRoomNotFound
		}
		if err != nil {
			return err
		}
		var dr diskRoom
		if err := item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &dr)
		}); err != nil {
			return err
		}
		room = toRoom(dr)

		if room.HasParticipant(joinerID) {
			// Revisiting one's own invite link.
			return nil
		}
		if room.IsFull() {
			return errors.ErrRoomFull
		}

		room.Participants = append(room.Participants, joinerID)
		data, err := cbor.Marshal(fromRoom(room))
		if err != nil {
			return fmt.Errorf("marshal failed: %w", err)
		}
		if err := txn.Set(roomKey(room.ID), data); err != nil {
			return err
		}
		return txn.Set(memberKey(joinerID, room.ID), []byte{})
	})
	if err != nil {
		return domain.Room{}, err
	}
	return room, nil
}

// ListRoomsForUser returns every room the user holds a seat in, most
// recently created first.
func (r RoomRepository) ListRoomsForUser(userID string) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		prefixStr := "member:" + userID + ":"
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		var roomIDs []string
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			roomIDs = append(roomIDs, string(it.Item().Key()[len(prefixStr):]))
		}

		for _, roomID := range roomIDs {
			item, err := txn.Get(roomKey(roomID))
			if stderrors.Is(err, badger.ErrKeyNotFound) {
				// Index entry without a room record; skip rather than
				// fail the whole listing.
				r.log.Warn("dangling membership index", "room_id", roomID)
				continue
			}
			if err != nil {
				return err
			}
			var dr diskRoom
			if err := item.Value(func(val []byte) error {
				return cbor.Unmarshal(val, &dr)
			}); err != nil {
				return err
			}
			rooms = append(rooms, toRoom(dr))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(rooms, func(i, j int) bool {
		if !rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
		}
		return rooms[i].ID > rooms[j].ID
	})
	return rooms, nil
}

func fromRoom(room domain.Room) diskRoom {
	return diskRoom{
		ID:           room.ID,
		InviteToken:  room.InviteToken,
		CreatorID:    room.CreatorID,
		Participants: room.Participants,
		CreatedAt:    room.CreatedAt.UnixNano(),
		Active:       room.Active,
	}
}

func toRoom(dr diskRoom) domain.Room {
	return domain.Room{
		ID:           dr.ID,
		InviteToken:  dr.InviteToken,
		CreatorID:    dr.CreatorID,
		Participants: dr.Participants,
		CreatedAt:    timeFromUnixNano(dr.CreatedAt),
		Active:       dr.Active,
	}
}
