package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/subtrackhq/subtrack/internal/models"
)

// CreateOCRRecord inserts a new OCR processing row. The extracted-data
// map is stored as a JSON string.
func (s *Store) CreateOCRRecord(ctx context.Context, rec *models.OCRRecord) error {
	const op = "sqlitestore.CreateOCRRecord"

	extracted, err := marshalExtracted(rec.ExtractedData)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO ocr_records (id, user_id, file_path, extracted_data,
	              confidence_score, status, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, rec.FilePath, extracted,
		rec.ConfidenceScore, string(rec.Status), fmtTime(rec.CreatedAt), fmtTime(rec.UpdatedAt))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateOCRRecord merges the non-nil fields of upd into the stored row
// and refreshes updated_at. Returns false when the id does not exist.
func (s *Store) UpdateOCRRecord(ctx context.Context, id string, upd models.OCRUpdate) (bool, error) {
	const op = "sqlitestore.UpdateOCRRecord"

	set := []string{"updated_at = ?"}
	args := []any{fmtTime(time.Now().UTC())}
	if upd.ExtractedData != nil {
		extracted, err := marshalExtracted(upd.ExtractedData)
		if err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		set = append(set, "extracted_data = ?")
		args = append(args, extracted)
	}
	if upd.ConfidenceScore != nil {
		set = append(set, "confidence_score = ?")
		args = append(args, *upd.ConfidenceScore)
	}
	if upd.Status != nil {
		set = append(set, "status = ?")
		args = append(args, string(*upd.Status))
	}
	args = append(args, id)

	result, err := s.db.ExecContext(ctx,
		"UPDATE ocr_records SET "+joinSet(set)+" WHERE id = ?", args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}

// ListOCRRecordsByUser returns all OCR records owned by the user, in
// insertion order.
func (s *Store) ListOCRRecordsByUser(ctx context.Context, userID string) ([]*models.OCRRecord, error) {
	const op = "sqlitestore.ListOCRRecordsByUser"

	query := `SELECT id, user_id, file_path, extracted_data, confidence_score,
	              status, created_at, updated_at
	          FROM ocr_records
	          WHERE user_id = ?
	          ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.OCRRecord
	for rows.Next() {
		var rec models.OCRRecord
		var extracted sql.NullString
		var confidence sql.NullFloat64
		var status, createdAt, updatedAt string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.FilePath, &extracted,
			&confidence, &status, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if extracted.Valid && extracted.String != "" {
			if err := json.Unmarshal([]byte(extracted.String), &rec.ExtractedData); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
		if confidence.Valid {
			rec.ConfidenceScore = &confidence.Float64
		}
		rec.Status = models.OCRStatus(status)
		rec.CreatedAt = parseTime(createdAt)
		rec.UpdatedAt = parseTime(updatedAt)
		result = append(result, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func marshalExtracted(data map[string]any) (any, error) {
	if data == nil {
		return nil, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
