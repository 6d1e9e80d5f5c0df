package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRoom_StartsWithCreatorOnly(t *testing.T) {
	req := require.New(t)

	room, err := NewRoom("alice")
	req.NoError(err)

	req.NotEmpty(room.ID)
	req.NotEmpty(room.InviteToken)
	req.Equal("alice", room.CreatorID)
	req.Equal([]string{"alice"}, room.Participants)
	req.True(room.Active)
	req.True(room.HasParticipant("alice"))
	req.False(room.HasParticipant("bob"))
	req.False(room.IsFull())

	_, ok := room.OtherParticipant("alice")
	req.False(ok)
}

func TestRoom_OtherParticipant(t *testing.T) {
	req := require.New(t)

	room, err := NewRoom("alice")
	req.NoError(err)
	room.Participants = append(room.Participants, "bob")

	req.True(room.IsFull())

	other, ok := room.OtherParticipant("alice")
	req.True(ok)
	req.Equal("bob", other)

	other, ok = room.OtherParticipant("bob")
	req.True(ok)
	req.Equal("alice", other)
}

func TestNewInviteToken_UniqueAndOpaque(t *testing.T) {
	req := require.New(t)

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		token, err := NewInviteToken()
		req.NoError(err)
		// 32 bytes in unpadded base64url
		req.Len(token, 43)

		_, dup := seen[token]
		req.False(dup)
		seen[token] = struct{}{}
	}
}
