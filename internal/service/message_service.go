package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"movieclub/internal/domain"
)

const maxMessageLength = 1000

// MessageService handles direct messages and conversation read state.
type MessageService struct {
	messages domain.MessageRepository
	users    domain.UserRepository
	log      zerolog.Logger
}

func NewMessageService(messages domain.MessageRepository, users domain.UserRepository, log zerolog.Logger) *MessageService {
	return &MessageService{messages: messages, users: users, log: log}
}

// Send validates and stores a new unread message from sender to receiver.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID int64, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("message content cannot be empty")
	}
	if len([]rune(content)) > maxMessageLength {
		return nil, invalid("message content exceeds 1000 characters")
	}
	if senderID == receiverID {
		return nil, invalid("cannot send a message to yourself")
	}

	receiver, err := s.users.GetByID(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("get receiver: %w", err)
	}
	if !receiver.IsActive {
		return nil, fmt.Errorf("receiver is inactive: %w", domain.ErrNotFound)
	}

	msg := &domain.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Open returns the viewer's conversation with the other user in chronological
// order. Opening marks the other party's unread messages as read as part of
// the same store call; repeating the call with no new messages is a no-op.
func (s *MessageService) Open(ctx context.Context, viewerID, otherID int64) ([]*domain.Message, error) {
	if viewerID == otherID {
		return nil, invalid("no conversation with yourself")
	}
	if _, err := s.users.GetByID(ctx, otherID); err != nil {
		return nil, fmt.Errorf("get other user: %w", err)
	}
	return s.messages.OpenConversation(ctx, viewerID, otherID)
}

// Conversations returns the viewer's conversation overview, newest first.
func (s *MessageService) Conversations(ctx context.Context, viewerID int64) ([]*domain.ConversationSummary, error) {
	return s.messages.ListConversations(ctx, viewerID)
}

// UnreadCount returns the viewer's total number of unread messages.
func (s *MessageService) UnreadCount(ctx context.Context, viewerID int64) (int, error) {
	return s.messages.UnreadCount(ctx, viewerID)
}
