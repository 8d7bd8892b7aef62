package config

import (
	"os"
	"strconv"

	"github.com/khuswant18/paddle-ocr/extractor"
)

type Config struct {
	ServerPort         string
	PaddleAPIURL       string
	TessdataPrefix     string
	MaxFileSize        int64
	MinLabelConfidence float64
	DateLocale         string
	MaxTableRows       int
}

func Load() *Config {
	cfg := &Config{
		ServerPort:         envOr("SERVER_PORT", "8080"),
		PaddleAPIURL:       envOr("PADDLE_API_URL", "http://paddleocr:8866/predict/ocr_system"),
		TessdataPrefix:     envOr("TESSDATA_PREFIX", "/usr/share/tesseract-ocr/5/tessdata/"),
		MaxFileSize:        10 * 1024 * 1024,
		MinLabelConfidence: envFloatOr("MIN_LABEL_CONFIDENCE", 0),
		DateLocale:         envOr("DATE_LOCALE", ""),
		MaxTableRows:       envIntOr("MAX_TABLE_ROWS", 0),
	}
	if size := envIntOr("MAX_FILE_SIZE_MB", 0); size > 0 {
		cfg.MaxFileSize = int64(size) * 1024 * 1024
	}
	return cfg
}

// ExtractionConfig maps the environment settings to an engine policy.
// Zero values are intentional: the engine constructor supplies its own
// defaults.
func (c *Config) ExtractionConfig() extractor.Config {
	return extractor.Config{
		MinLabelConfidence: c.MinLabelConfidence,
		DateLocale:         extractor.DateLocale(c.DateLocale),
		MaxTableRows:       c.MaxTableRows,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
