package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/khuswant18/paddle-ocr/client"
	"github.com/khuswant18/paddle-ocr/config"
	"github.com/khuswant18/paddle-ocr/handler"
	"github.com/khuswant18/paddle-ocr/service"
)

func main() {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()

	paddleClient := client.NewPaddleClient(cfg.PaddleAPIURL, logger)
	tesseractClient := client.NewTesseractClient(cfg.TessdataPrefix, logger)
	pdfProcessor := service.NewPDFProcessor()

	invoiceService := service.NewInvoiceService(
		paddleClient,
		tesseractClient,
		pdfProcessor,
		cfg.ExtractionConfig(),
		logger,
	)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, logger)

	router := gin.Default()
	router.MaxMultipartMemory = 32 << 20

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Invoice OCR Extraction",
		})
	})

	api := router.Group("/api/v1")
	{
		invoice := api.Group("/invoice")
		{
			invoice.POST("/extract", invoiceHandler.Extract)
		}
	}

	logger.Info("starting invoice extraction service", zap.String("port", cfg.ServerPort))
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
