package services

import (
	"fmt"
	"log/slog"

	"pairchat/domain"
	"pairchat/errors"
	"pairchat/repositories"
)

type IChatService interface {
	CreateChat(userID string) (domain.Room, error)
	JoinChat(userID, token string) (RoomSummary, error)
	MyChats(userID string) ([]RoomSummary, error)
	SendMessage(cmd domain.PostMessageCommand) (domain.Message, error)
	FetchMessages(cmd domain.FetchMessagesCommand) ([]domain.Message, *string, error)
}

// RoomSummary is a room annotated with the counterpart's display
// identity. Other is nil while the room is still pending its second
// participant.
type RoomSummary struct {
	Room  domain.Room
	Other *domain.User
}

func (s RoomSummary) Pending() bool {
	return s.Other == nil
}

type ChatService struct {
	rooms    repositories.IRoomRepository
	messages repositories.IMessageRepository
	users    repositories.IUserRepository
	log      *slog.Logger
}

func NewChatService(log *slog.Logger,
	rooms repositories.IRoomRepository,
	messages repositories.IMessageRepository,
	users repositories.IUserRepository) *ChatService {
	return &ChatService{rooms: rooms, messages: messages, users: users, log: log}
}

// CreateChat opens a fresh room with the caller in the first seat and
// returns it, invite token included. The token is handed to exactly one
// person out of band; whoever presents it claims the second seat.
func (s *ChatService) CreateChat(userID string) (domain.Room, error) {
	room, err := domain.NewRoom(userID)
	if err != nil {
		return domain.Room{}, fmt.Errorf("%w: %v", errors.ErrTokenGeneration, err)
	}
	if err := s.rooms.CreateRoom(room); err != nil {
		return domain.Room{}, err
	}
	s.log.Info("room created", "room_id", room.ID, "creator_id", userID)
	return room, nil
}

// JoinChat claims the remaining seat of the room behind the token.
// Propagates ErrRoomNotFound and ErrRoomFull from the registry.
func (s *ChatService) JoinChat(userID, token string) (RoomSummary, error) {
	room, err := s.rooms.JoinRoom(token, userID)
	if err != nil {
		return RoomSummary{}, err
	}
	s.log.Info("room joined", "room_id", room.ID, "joiner_id", userID)
	return s.summarize(room, userID), nil
}

// MyChats lists the caller's rooms, most recently created first.
func (s *ChatService) MyChats(userID string) ([]RoomSummary, error) {
	rooms, err := s.rooms.ListRoomsForUser(userID)
	if err != nil {
		return nil, err
	}
	summaries := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		summaries = append(summaries, s.summarize(room, userID))
	}
	return summaries, nil
}

// SendMessage appends to the room's log after re-checking that the
// caller holds a seat. The membership check runs on every call; a
// cached decision could outlive a membership change.
func (s *ChatService) SendMessage(cmd domain.PostMessageCommand) (domain.Message, error) {
	if err := s.authorize(cmd.RoomID, cmd.UserID); err != nil {
		return domain.Message{}, err
	}
	return s.messages.AppendMessage(cmd.RoomID, cmd.UserID, cmd.Content)
}

// FetchMessages returns the next page of the room's log for a polling
// caller, with the same per-call membership check as SendMessage.
func (s *ChatService) FetchMessages(cmd domain.FetchMessagesCommand) ([]domain.Message, *string, error) {
	if err := s.authorize(cmd.RoomID, cmd.UserID); err != nil {
		return nil, nil, err
	}
	return s.messages.ListMessages(cmd.RoomID, cmd.Cursor, cmd.Limit)
}

func (s *ChatService) authorize(roomID, userID string) error {
	room, err := s.rooms.GetRoom(roomID)
	if err != nil {
		return err
	}
	if !room.HasParticipant(userID) {
		return errors.ErrForbidden
	}
	return nil
}

func (s *ChatService) summarize(room domain.Room, userID string) RoomSummary {
	summary := RoomSummary{Room: room}
	otherID, ok := room.OtherParticipant(userID)
	if !ok {
		return summary
	}
	other, err := s.users.GetUserByID(otherID)
	if err != nil {
		// The seat is taken either way; show the room without the
		// counterpart's display identity.
		s.log.Warn("counterpart lookup failed", "room_id", room.ID, "user_id", otherID)
		other = domain.User{ID: otherID}
	}
	return RoomSummary{Room: room, Other: &other}
}
