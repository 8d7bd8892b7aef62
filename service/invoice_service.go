package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"go.uber.org/zap"

	"github.com/khuswant18/paddle-ocr/client"
	"github.com/khuswant18/paddle-ocr/dto"
	"github.com/khuswant18/paddle-ocr/extractor"
)

// invoiceKeywords are the terms whose presence indicates a usable text
// layer. A scanned PDF's embedded text, if any, rarely contains them.
var invoiceKeywords = []string{
	"invoice", "total", "qty", "amount", "date", "gst", "bill", "subtotal", "tax",
}

var supportedExtensions = map[string]bool{
	".pdf": true, ".png": true, ".jpg": true, ".jpeg": true,
	".tiff": true, ".tif": true, ".bmp": true,
}

// InvoiceService routes an uploaded document through the right OCR
// pipeline and runs structured extraction over the result.
type InvoiceService struct {
	paddle    *client.PaddleClient
	tesseract *client.TesseractClient
	pdfProc   PDFProcessor
	baseCfg   extractor.Config
	logger    *zap.Logger
}

func NewInvoiceService(
	paddle *client.PaddleClient,
	tesseract *client.TesseractClient,
	pdfProc PDFProcessor,
	baseCfg extractor.Config,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		paddle:    paddle,
		tesseract: tesseract,
		pdfProc:   pdfProc,
		baseCfg:   baseCfg,
		logger:    logger,
	}
}

// ExtractFromUpload handles one uploaded invoice end to end: routing
// between the PDF text layer and OCR, field extraction, and response
// assembly.
func (s *InvoiceService) ExtractFromUpload(ctx context.Context, req dto.InvoiceExtractRequest) (*dto.InvoiceExtractResponse, error) {
	if req.File == nil {
		return nil, dto.ErrNoFileProvided
	}
	ext := strings.ToLower(filepath.Ext(req.File.Filename))
	if !supportedExtensions[ext] {
		return nil, dto.ErrUnsupportedFile
	}

	file, err := req.File.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	var (
		rawText   string
		boxes     []dto.TextBox
		ocrConf   float64
		qrContent string
		issues    []string
	)

	if ext == ".pdf" {
		rawText, boxes, ocrConf, qrContent, issues, err = s.processPDF(ctx, data, req.Password)
	} else {
		rawText, boxes, ocrConf, qrContent, issues, err = s.processImage(ctx, data)
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(rawText) == "" {
		return nil, dto.ErrNoTextExtracted
	}

	cfg := s.baseCfg
	if req.DateLocale != "" {
		cfg.DateLocale = extractor.DateLocale(req.DateLocale)
	}
	engine, err := extractor.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction engine: %w", err)
	}

	record := engine.Extract(rawText, boxes)
	if len(record.Items) == 0 {
		issues = append(issues, "no line items detected")
	}
	if record.GrandTotal == nil {
		issues = append(issues, "grand total missing")
	}

	textScore := textQualityScore(rawText) * 100
	quality := dto.DocumentQuality{
		OcrConfidence: ocrConf,
		TextScore:     textScore,
		FinalScore:    0.6*ocrConf + 0.4*textScore,
		Issues:        issues,
	}

	s.logger.Info("invoice extraction complete",
		zap.String("file", req.File.Filename),
		zap.String("invoice_number", record.InvoiceNumber),
		zap.Int("items", len(record.Items)),
		zap.Float64("final_score", quality.FinalScore))

	return &dto.InvoiceExtractResponse{
		InvoiceData: record,
		Summary:     extractor.RenderSummary(record),
		RawText:     rawText,
		QRContent:   qrContent,
		Quality:     quality,
		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// processPDF prefers the embedded text layer and falls back to OCRing
// the page images when the layer is missing or looks like garbage.
func (s *InvoiceService) processPDF(ctx context.Context, data []byte, password string) (string, []dto.TextBox, float64, string, []string, error) {
	text, err := s.pdfProc.ExtractText(data)
	if err != nil {
		s.logger.Warn("pdf text layer unreadable", zap.Error(err))
	}
	if textQualityScore(text) >= 0.3 {
		// The embedded layer is the printed text itself, not a
		// recognition guess, so confidence is full.
		return text, nil, 100, "", nil, nil
	}

	images, err := s.pdfProc.ExtractImages(data, password)
	if err != nil {
		return "", nil, 0, "", nil, fmt.Errorf("failed to rasterize pdf: %w", err)
	}
	if len(images) == 0 {
		return "", nil, 0, "", nil, dto.ErrNoTextExtracted
	}
	return s.ocrPages(ctx, images, s.ocrImage)
}

// pageOCRFunc is the per-page recognition step ocrPages stitches over.
type pageOCRFunc func(context.Context, image.Image) (string, []dto.TextBox, float64, string, []string, error)

// ocrPages runs every page image through OCR and stitches the results
// into document-level text and boxes. Failed pages are skipped; the
// confidence average covers only the pages that actually produced text.
func (s *InvoiceService) ocrPages(ctx context.Context, images []image.Image, ocr pageOCRFunc) (string, []dto.TextBox, float64, string, []string, error) {
	var (
		textBuilder strings.Builder
		allBoxes    []dto.TextBox
		totalConf   float64
		qrContent   string
		issues      []string
		lineOffset  int
		yOffset     int
		ocredPages  int
	)
	for i, img := range images {
		pageText, pageBoxes, conf, pageQR, pageIssues, err := ocr(ctx, img)
		if err != nil {
			s.logger.Warn("page OCR failed", zap.Int("page", i+1), zap.Error(err))
			continue
		}
		textBuilder.WriteString(pageText)
		if !strings.HasSuffix(pageText, "\n") {
			textBuilder.WriteString("\n")
		}
		pageBoxes, lineOffset, yOffset = offsetPageBoxes(pageBoxes, lineOffset, yOffset)
		allBoxes = append(allBoxes, pageBoxes...)
		totalConf += conf
		ocredPages++
		if qrContent == "" {
			qrContent = pageQR
		}
		issues = append(issues, pageIssues...)
	}
	if ocredPages == 0 {
		return "", nil, 0, "", issues, dto.ErrNoTextExtracted
	}
	avgConf := totalConf / float64(ocredPages)
	return textBuilder.String(), allBoxes, avgConf, qrContent, issues, nil
}

// offsetPageBoxes shifts one page's boxes into document coordinates so
// that a later page always sorts below every earlier one. Word-level
// boxes carry page-local Y values; without the shift a multi-page
// document would interleave rows from different pages.
func offsetPageBoxes(pageBoxes []dto.TextBox, lineOffset, yOffset int) ([]dto.TextBox, int, int) {
	nextLine, nextY := lineOffset, yOffset
	out := make([]dto.TextBox, 0, len(pageBoxes))
	for _, b := range pageBoxes {
		if b.LineIndex >= 0 {
			b.LineIndex += lineOffset
			if b.LineIndex >= nextLine {
				nextLine = b.LineIndex + 1
			}
		}
		b.Y += yOffset
		if bottom := b.Y + b.Height; bottom >= nextY {
			nextY = bottom + 1
		}
		out = append(out, b)
	}
	return out, nextLine, nextY
}

func (s *InvoiceService) processImage(ctx context.Context, data []byte) (string, []dto.TextBox, float64, string, []string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", nil, 0, "", nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return s.ocrImage(ctx, img)
}

// ocrImage enhances one page image, runs Paddle with a Tesseract
// fallback, and opportunistically decodes a QR code from the original.
func (s *InvoiceService) ocrImage(ctx context.Context, img image.Image) (string, []dto.TextBox, float64, string, []string, error) {
	var issues []string

	enhanced := enhanceForOCR(img)
	encoded, err := encodePNG(enhanced)
	if err != nil {
		return "", nil, 0, "", nil, err
	}

	text, boxes, conf, err := s.paddle.ExtractText(ctx, encoded)
	if err != nil {
		s.logger.Warn("paddle OCR failed, falling back to tesseract", zap.Error(err))
		issues = append(issues, "primary OCR engine unavailable")
		text, boxes, conf, err = s.tesseract.ExtractText(encoded)
		if err != nil {
			return "", nil, 0, "", nil, fmt.Errorf("all OCR engines failed: %w", err)
		}
	}
	if conf < 50 {
		issues = append(issues, "low OCR confidence")
	}

	// QR payloads on tax invoices carry signed totals; decode failure
	// just means there is no code.
	qrContent := decodeQR(img)

	return text, boxes, conf, qrContent, issues, nil
}

// enhanceForOCR applies the standard scan cleanup chain before
// recognition.
func enhanceForOCR(img image.Image) image.Image {
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 30)
	out = imaging.Sharpen(out, 1.5)
	out = imaging.AdjustBrightness(out, 10)
	return out
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeQR(img image.Image) string {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return ""
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return ""
	}
	return result.GetText()
}

// textQualityScore estimates how invoice-like a blob of text is, as the
// fraction of expected vocabulary present. Empty or tiny text scores
// zero outright.
func textQualityScore(text string) float64 {
	if len(strings.TrimSpace(text)) < 20 {
		return 0
	}
	lower := strings.ToLower(text)
	matched := 0
	for _, kw := range invoiceKeywords {
		if strings.Contains(lower, kw) {
			matched++
		}
	}
	return float64(matched) / float64(len(invoiceKeywords))
}
