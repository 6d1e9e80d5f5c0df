// Package domain contains core concepts of the pairing chat system.
// This file defines Message events and related rules.
// Messages are immutable once created.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event. Seq is the order key: a
// strictly increasing value assigned at append time, defining the total
// order of messages within a room. Readers page through the log by Seq,
// never by position, so a poll can miss nothing and duplicate nothing.
type Message struct {
	ID        uuid.UUID
	RoomID    string
	SenderID  string
	Seq       uint64
	Content   string
	CreatedAt time.Time
}
