//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/binary"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"pairchat/domain"
	"pairchat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// appendRetries bounds optimistic-transaction retries when concurrent
// appends to the same room contend for the sequence counter.
const appendRetries = 32

type IMessageRepository interface {
	AppendMessage(roomID, senderID, content string) (domain.Message, error)
	ListMessages(roomID string, cursor *string, limit int) ([]domain.Message, *string, error)
}

type MessageRepository struct {
	db               *badger.DB
	log              *slog.Logger
	maxContentLength int
	limitMessages    *int
}

// NewMessageRepository builds the append-only message store.
// maxContentLength caps message size in runes; limitMessages, when set,
// caps the page size of a single listing.
func NewMessageRepository(db *badger.DB, log *slog.Logger, maxContentLength int, limitMessages *int) MessageRepository {
	return MessageRepository{
		db:               db,
		log:              log,
		maxContentLength: maxContentLength,
		limitMessages:    limitMessages,
	}
}

// diskMessage is the persisted shape of a message.
type diskMessage struct {
	ID        string `cbor:"id"`
	RoomID    string `cbor:"room_id"`
	SenderID  string `cbor:"sender_id"`
	Seq       uint64 `cbor:"seq"`
	Content   string `cbor:"content"`
	CreatedAt int64  `cbor:"created_at"`
}

// Key layout:
//
//	msg:{room_id}:{seq padded to 19 digits} -> cbor(diskMessage)
//	seq:{room_id}                           -> big-endian uint64 counter
//
// Zero padding keeps lexicographic key order equal to numeric sequence
// order, so a plain forward prefix scan yields messages in append order.
func messageKey(roomID string, seq uint64) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d", roomID, seq))
}

func seqKey(roomID string) []byte {
	return []byte("seq:" + roomID)
}

// AppendMessage validates the content, assigns the room's next order key
// and persists the message. The counter read-increment and the message
// write share one transaction: two concurrent appends to the same room
// cannot commit the same sequence number, the loser replays with the
// next value. Appends to different rooms touch disjoint keys and never
// contend.
func (m MessageRepository) AppendMessage(roomID, senderID, content string) (domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Message{}, fmt.Errorf("%w: empty content", errors.ErrInvalidContent)
	}
	if utf8.RuneCountInString(content) > m.maxContentLength {
		return domain.Message{}, fmt.Errorf("%w: exceeds %d characters", errors.ErrInvalidContent, m.maxContentLength)
	}

	message := domain.Message{
		ID:        uuid.New(),
		RoomID:    roomID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	for attempt := 1; attempt <= appendRetries; attempt++ {
		seq, err := m.tryAppend(message)
		if stderrors.Is(err, badger.ErrConflict) {
			m.log.Debug("append conflict, replaying transaction",
				"room_id", roomID,
				"attempt", attempt)
			continue
		}
		if err != nil {
			return domain.Message{}, err
		}
		message.Seq = seq
		return message, nil
	}
	return domain.Message{}, fmt.Errorf("append message: retries exhausted: %w", badger.ErrConflict)
}

func (m MessageRepository) tryAppend(message domain.Message) (uint64, error) {
	var seq uint64
	err := m.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(seqKey(message.RoomID))
		switch {
		case stderrors.Is(err, badger.ErrKeyNotFound):
			seq = 1
		case err != nil:
			return err
		default:
			if err := item.Value(func(val []byte) error {
				seq = binary.BigEndian.Uint64(val) + 1
				return nil
			}); err != nil {
				return err
			}
		}

		var counter [8]byte
		binary.BigEndian.PutUint64(counter[:], seq)
		if err := txn.Set(seqKey(message.RoomID), counter[:]); err != nil {
			return err
		}

		message.Seq = seq
		data, err := cbor.Marshal(fromMessage(message))
		if err != nil {
			return fmt.Errorf("marshal failed: %w", err)
		}
		return txn.Set(messageKey(message.RoomID, seq), data)
	})
	return seq, err
}

// ListMessages returns a page of a room's log in ascending sequence
// order. The cursor is the opaque key suffix of the last message of the
// previous page; the next page starts strictly after it. Because pages
// are keyed on the order key rather than position, appends happening
// between two polls can neither hide nor duplicate a message.
func (m MessageRepository) ListMessages(roomID string, cursor *string, limit int) ([]domain.Message, *string, error) {
	pageSize := limit
	if pageSize < 0 {
		pageSize = 0
	}
	if m.limitMessages != nil && (pageSize == 0 || pageSize > *m.limitMessages) {
		pageSize = *m.limitMessages
	}

	var byteMessages [][]byte
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := "msg:" + roomID + ":"
		prefix := []byte(prefixStr)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		seekKey := prefix
		if cursor != nil {
			seekKey = append([]byte(prefixStr), []byte(*cursor)...)
		}
		it.Seek(seekKey)

		// The cursor points at an already-delivered message; skip it.
		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()) == string(seekKey) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if pageSize > 0 && len(byteMessages) == pageSize {
				m.log.Debug(fmt.Sprintf("page limit of %d messages reached", pageSize))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefixStr):])
			if err := item.Value(func(value []byte) error {
				byteMessages = append(byteMessages, append([]byte(nil), value...))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if len(byteMessages) == 0 {
		// Nothing new; the caller keeps polling with its previous cursor.
		return nil, cursor, nil
	}

	messages := make([]domain.Message, 0, len(byteMessages))
	for _, b := range byteMessages {
		var dm diskMessage
		if err := cbor.Unmarshal(b, &dm); err != nil {
			return nil, nil, err
		}
		message, err := toMessage(dm)
		if err != nil {
			return nil, nil, err
		}
		messages = append(messages, message)
	}
	return messages, &lastKey, nil
}

func fromMessage(message domain.Message) diskMessage {
	return diskMessage{
		ID:        message.ID.String(),
		RoomID:    message.RoomID,
		SenderID:  message.SenderID,
		Seq:       message.Seq,
		Content:   message.Content,
		CreatedAt: message.CreatedAt.UnixNano(),
	}
}

func toMessage(dm diskMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(dm.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:        parsedID,
		RoomID:    dm.RoomID,
		SenderID:  dm.SenderID,
		Seq:       dm.Seq,
		Content:   dm.Content,
		CreatedAt: timeFromUnixNano(dm.CreatedAt),
	}, nil
}

func timeFromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
