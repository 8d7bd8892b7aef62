package dto

import (
	"errors"
	"mime/multipart"
)

// InvoiceExtractRequest represents the incoming multipart request.
type InvoiceExtractRequest struct {
	File       *multipart.FileHeader `form:"file" binding:"required"`
	Password   string                `form:"password"`
	DateLocale string                `form:"date_locale"`
}

// Validate performs basic validation on the request
func (r *InvoiceExtractRequest) Validate() error {
	if r.File == nil {
		return ErrNoFileProvided
	}
	if r.DateLocale != "" && r.DateLocale != "dmy" && r.DateLocale != "mdy" {
		return errors.New("date_locale must be 'dmy' or 'mdy'")
	}
	return nil
}
