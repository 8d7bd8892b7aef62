package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khuswant18/paddle-ocr/dto"
	"github.com/khuswant18/paddle-ocr/service"
)

// InvoiceHandler exposes invoice extraction over HTTP.
type InvoiceHandler struct {
	service *service.InvoiceService
	logger  *zap.Logger
}

func NewInvoiceHandler(svc *service.InvoiceService, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{service: svc, logger: logger}
}

// Extract handles POST /api/v1/invoice/extract. It accepts a multipart
// upload with the document under "file", plus optional "password" and
// "date_locale" fields.
func (h *InvoiceHandler) Extract(c *gin.Context) {
	var req dto.InvoiceExtractRequest
	if err := c.ShouldBind(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	resp, err := h.service.ExtractFromUpload(c.Request.Context(), req)
	if err != nil {
		status, code := classifyError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("invoice extraction failed",
				zap.String("file", req.File.Filename),
				zap.Error(err))
		}
		h.sendError(c, status, code, err.Error())
		return
	}

	c.JSON(http.StatusOK, resp)
}

func classifyError(err error) (status int, code string) {
	switch {
	case errors.Is(err, dto.ErrNoFileProvided):
		return http.StatusBadRequest, "no_file"
	case errors.Is(err, dto.ErrUnsupportedFile):
		return http.StatusUnsupportedMediaType, "unsupported_file"
	case errors.Is(err, dto.ErrNoTextExtracted):
		return http.StatusUnprocessableEntity, "no_text_extracted"
	default:
		return http.StatusInternalServerError, "extraction_failed"
	}
}

func (h *InvoiceHandler) sendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    status,
	})
}
