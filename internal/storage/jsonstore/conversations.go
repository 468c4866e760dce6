package jsonstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/subtrackhq/subtrack/internal/models"
)

// CreateConversation appends one message/response pair. Conversations
// are append-only; there is no update or delete.
func (s *Store) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	const op = "jsonstore.CreateConversation"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.conversations.mu.Lock()
	defer s.conversations.mu.Unlock()

	var convs []models.Conversation
	if err := s.conversations.load(&convs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	convs = append(convs, *conv)
	if err := s.conversations.persist(convs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListSessionHistory returns the session's conversations newest first,
// capped at limit. A non-positive limit returns an empty history.
func (s *Store) ListSessionHistory(ctx context.Context, sessionID string, limit int) ([]*models.Conversation, error) {
	const op = "jsonstore.ListSessionHistory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.conversations.mu.Lock()
	defer s.conversations.mu.Unlock()

	var convs []models.Conversation
	if err := s.conversations.load(&convs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result []*models.Conversation
	for i := range convs {
		if convs[i].SessionID == sessionID {
			c := convs[i]
			result = append(result, &c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit < 0 {
		limit = 0
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
