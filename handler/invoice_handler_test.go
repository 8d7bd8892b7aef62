package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/khuswant18/paddle-ocr/dto"
	"github.com/khuswant18/paddle-ocr/extractor"
	"github.com/khuswant18/paddle-ocr/service"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	svc := service.NewInvoiceService(nil, nil, service.NewPDFProcessor(), extractor.Config{}, logger)
	h := NewInvoiceHandler(svc, logger)

	router := gin.New()
	router.POST("/api/v1/invoice/extract", h.Extract)
	return router
}

func multipartBody(t *testing.T, fieldName, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestExtractMissingFile(t *testing.T) {
	router := newTestRouter()
	body, contentType := multipartBody(t, "document", "invoice.png", []byte("data"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoice/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_request", resp.Error)
}

func TestExtractUnsupportedFileType(t *testing.T) {
	router := newTestRouter()
	body, contentType := multipartBody(t, "file", "notes.txt", []byte("plain text"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoice/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unsupported_file", resp.Error)
}

func TestExtractInvalidDateLocale(t *testing.T) {
	router := newTestRouter()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "invoice.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, w.WriteField("date_locale", "ymd"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoice/extract", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassifyError(t *testing.T) {
	status, code := classifyError(dto.ErrUnsupportedFile)
	assert.Equal(t, http.StatusUnsupportedMediaType, status)
	assert.Equal(t, "unsupported_file", code)

	status, code = classifyError(dto.ErrNoTextExtracted)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "no_text_extracted", code)

	status, _ = classifyError(assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, status)
}
