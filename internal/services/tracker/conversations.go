package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/subtrackhq/subtrack/internal/models"
)

// SaveConversation appends one message/response pair to the session's
// history. Confidence, when present, must be within [0, 1].
func (s *Service) SaveConversation(ctx context.Context, userID, sessionID, message, response, intent string, confidence *float64) (*models.Conversation, error) {
	const op = "tracker.SaveConversation"

	if message == "" {
		return nil, fmt.Errorf("%s: %w: message is required", op, ErrValidation)
	}
	if confidence != nil && (*confidence < 0 || *confidence > 1) {
		return nil, fmt.Errorf("%s: %w: confidence out of range", op, ErrValidation)
	}

	conv := &models.Conversation{
		ID:         uuid.NewString(),
		UserID:     userID,
		SessionID:  sessionID,
		Message:    message,
		Response:   response,
		Intent:     intent,
		Confidence: confidence,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.active().CreateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return conv, nil
}

// GetSessionHistory returns the session's conversations newest first,
// capped at limit.
func (s *Service) GetSessionHistory(ctx context.Context, sessionID string, limit int) ([]*models.Conversation, error) {
	return s.active().ListSessionHistory(ctx, sessionID, limit)
}
