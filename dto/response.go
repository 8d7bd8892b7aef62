package dto

import "errors"

// Custom errors
var (
	ErrNoFileProvided  = errors.New("no file provided")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrNoTextExtracted = errors.New("no text could be extracted from the document")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// InvoiceExtractResponse is the final response structure
type InvoiceExtractResponse struct {
	InvoiceData InvoiceRecord   `json:"invoice_data"`
	Summary     string          `json:"summary"`
	RawText     string          `json:"raw_text,omitempty"`
	QRContent   string          `json:"qr_content,omitempty"`
	Quality     DocumentQuality `json:"quality"`
	ProcessedAt string          `json:"processed_at"`
}
