package models

import "time"

// OCRRecord tracks one uploaded bill image and the data extracted from
// it. The record is created in the processing state and mutated as OCR
// completes; extraction itself happens outside this service.
type OCRRecord struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	FilePath        string         `json:"file_path"`
	ExtractedData   map[string]any `json:"extracted_data,omitempty"`
	ConfidenceScore *float64       `json:"confidence_score,omitempty"`
	Status          OCRStatus      `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// OCRUpdate carries a partial OCR record update. Nil fields are left
// untouched.
type OCRUpdate struct {
	ExtractedData   map[string]any `json:"extracted_data,omitempty"`
	ConfidenceScore *float64       `json:"confidence_score,omitempty"`
	Status          *OCRStatus     `json:"status,omitempty"`
}
