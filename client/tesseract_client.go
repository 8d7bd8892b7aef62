package client

import (
	"fmt"
	"os"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"

	"github.com/khuswant18/paddle-ocr/dto"
)

// TesseractClient runs local Tesseract OCR. It is the fallback engine
// when the PaddleOCR service is unreachable or recognizes nothing.
type TesseractClient struct {
	tessdataPrefix string
	logger         *zap.Logger
}

func NewTesseractClient(tessdataPrefix string, logger *zap.Logger) *TesseractClient {
	return &TesseractClient{tessdataPrefix: tessdataPrefix, logger: logger}
}

// ExtractText OCRs one image and returns the text, word-level boxes and
// the average word confidence on a 0-100 scale. Tesseract word boxes
// carry no line grouping, so LineIndex is left at -1 and rows are
// reassembled downstream from coordinates.
func (tc *TesseractClient) ExtractText(imageBytes []byte) (string, []dto.TextBox, float64, error) {
	tempFile, err := tc.writeTempImage(imageBytes)
	if err != nil {
		return "", nil, 0, err
	}
	defer os.Remove(tempFile)

	client := gosseract.NewClient()
	defer client.Close()

	client.SetTessdataPrefix(tc.tessdataPrefix)
	if err := client.SetLanguage("eng"); err != nil {
		return "", nil, 0, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImage(tempFile); err != nil {
		return "", nil, 0, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", nil, 0, fmt.Errorf("failed to extract text: %w", err)
	}

	wordBoxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		tc.logger.Warn("tesseract bounding boxes unavailable", zap.Error(err))
		return text, nil, 0, nil
	}

	var boxes []dto.TextBox
	var totalConf float64
	for _, wb := range wordBoxes {
		boxes = append(boxes, dto.TextBox{
			Text:      wb.Word,
			X:         wb.Box.Min.X,
			Y:         wb.Box.Min.Y,
			Width:     wb.Box.Dx(),
			Height:    wb.Box.Dy(),
			LineIndex: -1,
		})
		totalConf += wb.Confidence
	}

	avgConf := 0.0
	if len(wordBoxes) > 0 {
		avgConf = totalConf / float64(len(wordBoxes))
	}

	tc.logger.Debug("tesseract extraction complete",
		zap.Int("words", len(boxes)),
		zap.Float64("avg_confidence", avgConf))

	return text, boxes, avgConf, nil
}

func (tc *TesseractClient) writeTempImage(imageBytes []byte) (string, error) {
	tempFile, err := os.CreateTemp("", "invoice-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tempFile.Close()

	if _, err := tempFile.Write(imageBytes); err != nil {
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("failed to write temp image: %w", err)
	}
	return tempFile.Name(), nil
}
