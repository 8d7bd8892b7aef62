package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khuswant18/paddle-ocr/dto"
)

// PaddleClient talks to a PaddleOCR serving instance over its ocr_system
// HTTP endpoint. The serving container returns per-line text together
// with recognition confidence and the quadrilateral of each detected
// text region.
type PaddleClient struct {
	apiURL     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewPaddleClient(apiURL string, logger *zap.Logger) *PaddleClient {
	return &PaddleClient{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

type paddleResponse struct {
	Results [][]struct {
		Text       string      `json:"text"`
		Confidence float64     `json:"confidence"`
		TextRegion [][]float64 `json:"text_region"`
	} `json:"results"`
}

// ExtractText runs one image through PaddleOCR and returns the
// recognized text, the positioned line boxes, and the average
// recognition confidence on a 0-100 scale. When the serving API is
// unreachable it falls back to the local paddleocr CLI, which yields
// text only.
func (p *PaddleClient) ExtractText(ctx context.Context, imageBytes []byte) (string, []dto.TextBox, float64, error) {
	text, boxes, conf, err := p.extractViaAPI(ctx, imageBytes)
	if err == nil {
		return text, boxes, conf, nil
	}
	p.logger.Warn("paddle API unavailable, trying local CLI", zap.Error(err))

	text, cliErr := p.extractViaCLI(ctx, imageBytes)
	if cliErr != nil {
		return "", nil, 0, fmt.Errorf("paddle API failed (%v) and CLI failed: %w", err, cliErr)
	}
	return text, nil, 0, nil
}

func (p *PaddleClient) extractViaAPI(ctx context.Context, imageBytes []byte) (string, []dto.TextBox, float64, error) {
	payload := map[string]any{
		"images": []string{base64.StdEncoding.EncodeToString(imageBytes)},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", nil, 0, fmt.Errorf("failed to marshal paddle request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", nil, 0, fmt.Errorf("failed to build paddle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", nil, 0, fmt.Errorf("failed to call paddle API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", nil, 0, fmt.Errorf("paddle API returned status %d: %s", resp.StatusCode, string(msg))
	}

	var result paddleResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", nil, 0, fmt.Errorf("failed to decode paddle response: %w", err)
	}
	if len(result.Results) == 0 || len(result.Results[0]) == 0 {
		return "", nil, 0, fmt.Errorf("paddle recognized no text")
	}

	var textBuilder strings.Builder
	var boxes []dto.TextBox
	var totalConf float64
	for i, line := range result.Results[0] {
		textBuilder.WriteString(line.Text)
		textBuilder.WriteString("\n")
		totalConf += line.Confidence

		box := dto.TextBox{Text: line.Text, LineIndex: i}
		if x, y, w, h, ok := regionBounds(line.TextRegion); ok {
			box.X, box.Y, box.Width, box.Height = x, y, w, h
		}
		boxes = append(boxes, box)
	}
	avgConf := totalConf / float64(len(result.Results[0])) * 100

	p.logger.Debug("paddle extraction complete",
		zap.Int("lines", len(boxes)),
		zap.Float64("avg_confidence", avgConf))

	return textBuilder.String(), boxes, avgConf, nil
}

// extractViaCLI shells out to the paddleocr Python CLI with the English
// model. Used only when the serving container is down; positions and
// confidences are not reported on this path.
func (p *PaddleClient) extractViaCLI(ctx context.Context, imageBytes []byte) (string, error) {
	tempFile, err := os.CreateTemp("", "paddle-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(imageBytes); err != nil {
		tempFile.Close()
		return "", fmt.Errorf("failed to write temp image: %w", err)
	}
	tempFile.Close()

	cmd := exec.CommandContext(ctx, "python3", "-c", fmt.Sprintf(`
import warnings
warnings.filterwarnings('ignore')
from paddleocr import PaddleOCR
ocr = PaddleOCR(use_angle_cls=True, lang='en', use_gpu=False, show_log=False)
result = ocr.ocr(%q, cls=True)
if result and result[0]:
    for line in result[0]:
        if line and len(line) > 1:
            print(line[1][0])
`, tempFile.Name()))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("paddleocr CLI failed: %v, stderr: %s", err, stderr.String())
	}
	if strings.TrimSpace(stdout.String()) == "" {
		return "", fmt.Errorf("paddleocr CLI recognized no text")
	}
	return stdout.String(), nil
}

// regionBounds collapses a detection quadrilateral to its axis-aligned
// bounding box.
func regionBounds(region [][]float64) (x, y, w, h int, ok bool) {
	if len(region) == 0 || len(region[0]) < 2 {
		return 0, 0, 0, 0, false
	}
	minX, minY := region[0][0], region[0][1]
	maxX, maxY := minX, minY
	for _, pt := range region {
		if len(pt) < 2 {
			return 0, 0, 0, 0, false
		}
		if pt[0] < minX {
			minX = pt[0]
		}
		if pt[0] > maxX {
			maxX = pt[0]
		}
		if pt[1] < minY {
			minY = pt[1]
		}
		if pt[1] > maxY {
			maxY = pt[1]
		}
	}
	return int(minX), int(minY), int(maxX - minX), int(maxY - minY), true
}
