package main

import (
	"log"
	"log/slog"

	"github.com/hobbyhall/storefront/internal/clock"
	"github.com/hobbyhall/storefront/internal/config"
	"github.com/hobbyhall/storefront/internal/db"
	"github.com/hobbyhall/storefront/internal/imagestore/local"
	"github.com/hobbyhall/storefront/internal/logging"
	"github.com/hobbyhall/storefront/internal/service"
	"github.com/hobbyhall/storefront/internal/session"
	"github.com/hobbyhall/storefront/internal/store"
	"github.com/hobbyhall/storefront/internal/vision"
	claudevision "github.com/hobbyhall/storefront/internal/vision/claude"
	ollamavision "github.com/hobbyhall/storefront/internal/vision/ollama"
	"github.com/hobbyhall/storefront/internal/web"
	"github.com/hobbyhall/storefront/internal/web/templates"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	images, err := local.NewLocalImageStore(cfg.ImagePath)
	if err != nil {
		logger.Error("failed to initialize image store", "error", err)
		return
	}

	clk := clock.NewSystem()
	sessions := session.NewStore(cfg.SessionTTL, clk)

	catalogService := service.NewCatalogService(
		store.NewProductStore(database), images, newVisionAnalyzer(cfg, logger), logger)
	eventService := service.NewEventService(store.NewEventStore(database), logger)
	bookingService := service.NewBookingService(store.NewRoomStore(database), clk, logger)
	authService := service.NewAuthService(store.NewUserStore(database), logger)

	server := web.NewServer(catalogService, eventService, bookingService, authService,
		sessions, templates.FS, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newVisionAnalyzer(cfg *config.Config, logger *slog.Logger) vision.Analyzer {
	switch cfg.VisionBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when VISION_BACKEND=claude")
			return nil
		}
		logger.Info("using Claude vision backend")
		return claudevision.NewClaudeAnalyzer(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	case "none", "":
		logger.Info("vision backend disabled")
		return nil
	default:
		logger.Info("using Ollama vision backend", "model", cfg.OllamaModel)
		return ollamavision.NewOllamaAnalyzer(cfg.OllamaHost, cfg.OllamaModel)
	}
}
