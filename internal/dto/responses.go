package dto

import (
	"github.com/google/uuid"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/model"
)

type ImportResponse struct {
	Batch model.ImportBatch `json:"batch"`
}

type BatchIngestResponse struct {
	BatchID  uuid.UUID `json:"batch_id"`
	Inserted int       `json:"inserted"`
}

type DeleteImportResponse struct {
	ID      uuid.UUID `json:"id"`
	Kind    string    `json:"kind"`
	Deleted bool      `json:"deleted"`
}

type ValidationError struct {
	Index   int    `json:"index"`
	Row     int    `json:"row,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorListResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}
