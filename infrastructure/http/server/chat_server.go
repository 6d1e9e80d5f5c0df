package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"pairchat/auth"
	"pairchat/domain"
	"pairchat/errors"
	"pairchat/services"

	"github.com/gorilla/mux"
	"github.com/samber/lo"
)

type ChatServer struct {
	chatService services.IChatService
	log         *slog.Logger
}

func NewChatServer(log *slog.Logger, chatService services.IChatService) *ChatServer {
	return &ChatServer{chatService: chatService, log: log}
}

type roomResponse struct {
	ID               string        `json:"id"`
	InviteToken      string        `json:"invite_token,omitempty"`
	Participants     []string      `json:"participants"`
	ParticipantCount int           `json:"participant_count"`
	CreatedAt        time.Time     `json:"created_at"`
	IsActive         bool          `json:"is_active"`
	Pending          bool          `json:"pending"`
	OtherUser        *userResponse `json:"other_user,omitempty"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	SenderID  string    `json:"sender_id"`
	Seq       uint64    `json:"seq"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type messagePageResponse struct {
	Messages []messageResponse `json:"messages"`
	Cursor   *string           `json:"cursor,omitempty"`
}

// CreateChat opens a new room for the caller and returns it with the
// invite token to share.
func (s *ChatServer) CreateChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respondError(w, errors.ErrUnauthenticated)
		return
	}

	room, err := s.chatService.CreateChat(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toRoomResponse(services.RoomSummary{Room: room}))
}

// JoinChat claims the second seat of the room behind the invite token.
func (s *ChatServer) JoinChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respondError(w, errors.ErrUnauthenticated)
		return
	}

	summary, err := s.chatService.JoinChat(userID, mux.Vars(r)["inviteToken"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toRoomResponse(summary))
}

// MyChats lists the caller's rooms, newest first.
func (s *ChatServer) MyChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respondError(w, errors.ErrUnauthenticated)
		return
	}

	summaries, err := s.chatService.MyChats(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, lo.Map(summaries, func(item services.RoomSummary, _ int) roomResponse {
		return toRoomResponse(item)
	}))
}

// SendMessage appends a message to the room's log on behalf of the
// caller.
func (s *ChatServer) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respondError(w, errors.ErrUnauthenticated)
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	message, err := s.chatService.SendMessage(domain.PostMessageCommand{
		RoomID:    mux.Vars(r)["chatID"],
		UserID:    userID,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toMessageResponse(message))
}

// FetchMessages returns the next page of the room's log. Polling
// clients pass the cursor of their previous page and receive everything
// newer, in order.
func (s *ChatServer) FetchMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respondError(w, errors.ErrUnauthenticated)
		return
	}

	var cursor *string
	if v := r.URL.Query().Get("cursor"); v != "" {
		cursor = &v
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	messages, nextCursor, err := s.chatService.FetchMessages(domain.FetchMessagesCommand{
		RoomID: mux.Vars(r)["chatID"],
		UserID: userID,
		Cursor: cursor,
		Limit:  limit,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, messagePageResponse{
		Messages: lo.Map(messages, func(item domain.Message, _ int) messageResponse {
			return toMessageResponse(item)
		}),
		Cursor: nextCursor,
	})
}

func toRoomResponse(summary services.RoomSummary) roomResponse {
	room := summary.Room
	resp := roomResponse{
		ID:               room.ID,
		InviteToken:      room.InviteToken,
		Participants:     room.Participants,
		ParticipantCount: len(room.Participants),
		CreatedAt:        room.CreatedAt,
		IsActive:         room.Active,
		Pending:          summary.Pending(),
	}
	if summary.Other != nil {
		resp.OtherUser = lo.ToPtr(toUserResponse(*summary.Other))
	}
	return resp
}

func toMessageResponse(message domain.Message) messageResponse {
	return messageResponse{
		ID:        message.ID.String(),
		ChatID:    message.RoomID,
		SenderID:  message.SenderID,
		Seq:       message.Seq,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}
}
