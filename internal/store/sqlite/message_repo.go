package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"movieclub/internal/domain"
)

type MessageRepo struct {
	db *sqlx.DB
}

func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

var _ domain.MessageRepository = (*MessageRepo)(nil)

const messageColumns = `id, sender_id, receiver_id, content, is_read, created_at`

func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	query := `
		INSERT INTO messages (sender_id, receiver_id, content, is_read, created_at)
		VALUES (?, ?, ?, 0, CURRENT_TIMESTAMP)
	`
	res, err := r.db.ExecContext(ctx, query, m.SenderID, m.ReceiverID, m.Content)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	m.ID = id
	m.IsRead = false
	return nil
}

// OpenConversation marks the other party's unread messages as read and
// returns the full history in one transaction, so the read transition cannot
// be skipped by a caller and repeated opens are no-ops.
func (r *MessageRepo) OpenConversation(ctx context.Context, viewerID, otherID int64) ([]*domain.Message, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin open conversation: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE messages SET is_read = 1
		WHERE sender_id = ? AND receiver_id = ? AND is_read = 0
	`, otherID, viewerID); err != nil {
		return nil, fmt.Errorf("mark conversation read: %w", err)
	}

	var msgs []*domain.Message
	if err := tx.SelectContext(ctx, &msgs, `
		SELECT `+messageColumns+` FROM messages
		WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
		ORDER BY created_at ASC, id ASC
	`, viewerID, otherID, otherID, viewerID); err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit open conversation: %w", err)
	}
	return msgs, nil
}

func (r *MessageRepo) ListConversations(ctx context.Context, viewerID int64) ([]*domain.ConversationSummary, error) {
	// One row per conversation partner with the latest message and the
	// viewer's unread count.
	query := `
		SELECT
			u.id AS other_user_id,
			u.username AS other_username,
			m.content AS last_content,
			m.created_at AS last_created_at,
			(SELECT COUNT(*) FROM messages
				WHERE sender_id = u.id AND receiver_id = ? AND is_read = 0) AS unread_count
		FROM users u
		JOIN messages m ON m.id = (
			SELECT id FROM messages
			WHERE (sender_id = ? AND receiver_id = u.id) OR (sender_id = u.id AND receiver_id = ?)
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		)
		ORDER BY m.created_at DESC, m.id DESC
	`
	var res []*domain.ConversationSummary
	if err := r.db.SelectContext(ctx, &res, query, viewerID, viewerID, viewerID); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return res, nil
}

func (r *MessageRepo) UnreadCount(ctx context.Context, viewerID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM messages WHERE receiver_id = ? AND is_read = 0
	`, viewerID)
	if err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return count, nil
}
