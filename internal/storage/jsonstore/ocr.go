package jsonstore

import (
	"context"
	"fmt"
	"time"

	"github.com/subtrackhq/subtrack/internal/models"
)

// CreateOCRRecord appends a new OCR processing record.
func (s *Store) CreateOCRRecord(ctx context.Context, rec *models.OCRRecord) error {
	const op = "jsonstore.CreateOCRRecord"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.ocrRecords.mu.Lock()
	defer s.ocrRecords.mu.Unlock()

	var recs []models.OCRRecord
	if err := s.ocrRecords.load(&recs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	recs = append(recs, *rec)
	if err := s.ocrRecords.persist(recs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateOCRRecord merges the non-nil fields of upd into the stored
// record and refreshes updated_at. Returns false when the id does not
// exist.
func (s *Store) UpdateOCRRecord(ctx context.Context, id string, upd models.OCRUpdate) (bool, error) {
	const op = "jsonstore.UpdateOCRRecord"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.ocrRecords.mu.Lock()
	defer s.ocrRecords.mu.Unlock()

	var recs []models.OCRRecord
	if err := s.ocrRecords.load(&recs); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	for i := range recs {
		if recs[i].ID != id {
			continue
		}
		if upd.ExtractedData != nil {
			recs[i].ExtractedData = upd.ExtractedData
		}
		if upd.ConfidenceScore != nil {
			recs[i].ConfidenceScore = upd.ConfidenceScore
		}
		if upd.Status != nil {
			recs[i].Status = *upd.Status
		}
		recs[i].UpdatedAt = time.Now().UTC()
		if err := s.ocrRecords.persist(recs); err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		return true, nil
	}
	return false, nil
}

// ListOCRRecordsByUser returns all OCR records owned by the user, in
// insertion order.
func (s *Store) ListOCRRecordsByUser(ctx context.Context, userID string) ([]*models.OCRRecord, error) {
	const op = "jsonstore.ListOCRRecordsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.ocrRecords.mu.Lock()
	defer s.ocrRecords.mu.Unlock()

	var recs []models.OCRRecord
	if err := s.ocrRecords.load(&recs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var result []*models.OCRRecord
	for i := range recs {
		if recs[i].UserID == userID {
			rec := recs[i]
			result = append(result, &rec)
		}
	}
	return result, nil
}
