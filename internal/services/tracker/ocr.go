package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/subtrackhq/subtrack/internal/models"
)

// CreateOCRRecord registers an uploaded bill image in the processing
// state. Extraction results arrive later through UpdateOCRRecord.
func (s *Service) CreateOCRRecord(ctx context.Context, userID, filePath string) (*models.OCRRecord, error) {
	const op = "tracker.CreateOCRRecord"

	if filePath == "" {
		return nil, fmt.Errorf("%s: %w: file path is required", op, ErrValidation)
	}

	now := time.Now().UTC()
	rec := &models.OCRRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		FilePath:  filePath,
		Status:    models.OCRProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.active().CreateOCRRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// UpdateOCRRecord applies a partial update as processing completes.
// Returns false when the id does not exist.
func (s *Service) UpdateOCRRecord(ctx context.Context, id string, upd models.OCRUpdate) (bool, error) {
	const op = "tracker.UpdateOCRRecord"

	if upd.Status != nil && !upd.Status.Valid() {
		return false, fmt.Errorf("%s: %w: unknown status %q", op, ErrValidation, *upd.Status)
	}
	if upd.ConfidenceScore != nil && (*upd.ConfidenceScore < 0 || *upd.ConfidenceScore > 1) {
		return false, fmt.Errorf("%s: %w: confidence out of range", op, ErrValidation)
	}

	ok, err := s.active().UpdateOCRRecord(ctx, id, upd)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

// ListOCRRecords returns the user's OCR records in insertion order.
func (s *Service) ListOCRRecords(ctx context.Context, userID string) ([]*models.OCRRecord, error) {
	return s.active().ListOCRRecordsByUser(ctx, userID)
}
