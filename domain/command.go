package domain

import "time"

// Command is a caller intent scoped to a single room.
type Command interface {
	Room() string
}

// PostMessageCommand carries a send intent from an authenticated caller.
type PostMessageCommand struct {
	RoomID    string
	UserID    string
	Content   string
	CreatedAt time.Time
}

func (c PostMessageCommand) Room() string {
	return c.RoomID
}

// FetchMessagesCommand asks for the next page of a room's log. A nil
// cursor starts from the beginning; otherwise the page starts strictly
// after the message the cursor points at.
type FetchMessagesCommand struct {
	RoomID string
	UserID string
	Cursor *string
	Limit  int
}

func (c FetchMessagesCommand) Room() string {
	return c.RoomID
}
