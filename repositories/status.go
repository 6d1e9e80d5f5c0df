package repositories

import (
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// statusLimit caps how many status checks a single listing returns.
const statusLimit = 1000

type IStatusRepository interface {
	RecordStatus(clientName string) (StatusCheck, error)
	ListStatus() ([]StatusCheck, error)
}

// StatusCheck is a client liveness ping, kept for operational visibility.
type StatusCheck struct {
	ID         string    `cbor:"id" json:"id"`
	ClientName string    `cbor:"client_name" json:"client_name"`
	Timestamp  time.Time `cbor:"timestamp" json:"timestamp"`
}

type StatusRepository struct {
	db *badger.DB
}

func NewStatusRepository(db *badger.DB) StatusRepository {
	return StatusRepository{db: db}
}

// Keyed "status:{timestamp_padded}:{uuid}" so a forward scan returns
// pings in arrival order.
func statusKey(id string, at time.Time) []byte {
	return []byte(fmt.Sprintf("status:%019d:%s", at.UnixNano(), id))
}

func (s StatusRepository) RecordStatus(clientName string) (StatusCheck, error) {
	check := StatusCheck{
		ID:         uuid.NewString(),
		ClientName: clientName,
		Timestamp:  time.Now().UTC(),
	}
	data, err := cbor.Marshal(check)
	if err != nil {
		return StatusCheck{}, fmt.Errorf("marshal failed: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(statusKey(check.ID, check.Timestamp), data)
	})
	if err != nil {
		return StatusCheck{}, err
	}
	return check, nil
}

func (s StatusRepository) ListStatus() ([]StatusCheck, error) {
	var checks []StatusCheck
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte("status:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if len(checks) == statusLimit {
				break
			}
			var check StatusCheck
			if err := it.Item().Value(func(val []byte) error {
				return cbor.Unmarshal(val, &check)
			}); err != nil {
				return err
			}
			checks = append(checks, check)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return checks, nil
}
