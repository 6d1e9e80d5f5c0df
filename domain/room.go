// Package domain contains core concepts of the pairing chat system.
// This file defines Room entities and the two-seat invariant.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
)

// MaxParticipants is the hard capacity of a room. A room is a private
// channel between exactly two users; it starts with one seat taken by
// its creator and the second seat is claimed through the invite token.
const MaxParticipants = 2

// inviteTokenBytes is the entropy of an invite token before encoding.
const inviteTokenBytes = 32

// Room is a private two-seat conversation. The invite token is a
// capability: knowing it is the sole authorization needed to claim the
// remaining seat. Once both seats are taken the token goes inert, it is
// never reused for another room.
type Room struct {
	ID           string
	InviteToken  string
	CreatorID    string
	Participants []string
	CreatedAt    time.Time
	Active       bool
}

// NewRoom allocates a room holding only its creator, with a fresh
// unguessable invite token.
func NewRoom(creatorID string) (Room, error) {
	token, err := NewInviteToken()
	if err != nil {
		return Room{}, err
	}
	return Room{
		ID:           uuid.NewString(),
		InviteToken:  token,
		CreatorID:    creatorID,
		Participants: []string{creatorID},
		CreatedAt:    time.Now().UTC(),
		Active:       true,
	}, nil
}

// NewInviteToken returns 32 bytes of entropy in URL-safe encoding.
// Tokens must not be predictable from prior tokens, so they are drawn
// from the system CSPRNG rather than derived from room identifiers.
func NewInviteToken() (string, error) {
	raw := make([]byte, inviteTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// HasParticipant reports whether userID currently holds a seat.
func (r Room) HasParticipant(userID string) bool {
	for _, p := range r.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether both seats are taken.
func (r Room) IsFull() bool {
	return len(r.Participants) >= MaxParticipants
}

// OtherParticipant returns the counterpart of userID. The second return
// is false while the room is still pending its second participant.
func (r Room) OtherParticipant(userID string) (string, bool) {
	for _, p := range r.Participants {
		if p != userID {
			return p, true
		}
	}
	return "", false
}
