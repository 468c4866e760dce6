package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/subtrackhq/subtrack/internal/models"
)

// CreateConversation inserts one message/response pair. Conversations
// are append-only; there is no update or delete.
func (s *Store) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	const op = "sqlitestore.CreateConversation"

	query := `INSERT INTO conversations (id, user_id, session_id, message,
	              response, intent, confidence, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		conv.ID, conv.UserID, conv.SessionID, conv.Message,
		conv.Response, conv.Intent, conv.Confidence, fmtTime(conv.CreatedAt))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListSessionHistory returns the session's conversations newest first,
// capped at limit. A non-positive limit returns an empty history.
func (s *Store) ListSessionHistory(ctx context.Context, sessionID string, limit int) ([]*models.Conversation, error) {
	const op = "sqlitestore.ListSessionHistory"

	if limit < 0 {
		limit = 0
	}
	query := `SELECT id, user_id, session_id, message, response, intent, confidence, created_at
	          FROM conversations
	          WHERE session_id = ?
	          ORDER BY created_at DESC, id DESC
	          LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Conversation
	for rows.Next() {
		var conv models.Conversation
		var confidence sql.NullFloat64
		var createdAt string
		if err := rows.Scan(&conv.ID, &conv.UserID, &conv.SessionID, &conv.Message,
			&conv.Response, &conv.Intent, &confidence, &createdAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if confidence.Valid {
			conv.Confidence = &confidence.Float64
		}
		conv.CreatedAt = parseTime(createdAt)
		result = append(result, &conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
