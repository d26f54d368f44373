package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/adhikari10/AI-Meeting-Notes/adapters/capture"
	"github.com/adhikari10/AI-Meeting-Notes/adapters/filestore"
	"github.com/adhikari10/AI-Meeting-Notes/adapters/llm"
	adaptermongo "github.com/adhikari10/AI-Meeting-Notes/adapters/mongo"
	"github.com/adhikari10/AI-Meeting-Notes/adapters/stt"
	"github.com/adhikari10/AI-Meeting-Notes/domain/repositories"
	"github.com/adhikari10/AI-Meeting-Notes/internal/api"
	"github.com/adhikari10/AI-Meeting-Notes/internal/auth"
	"github.com/adhikari10/AI-Meeting-Notes/internal/config"
	"github.com/adhikari10/AI-Meeting-Notes/internal/websocket"
	"github.com/adhikari10/AI-Meeting-Notes/usecase"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	audioConfig := repositories.AudioConfig{
		SampleRate: cfg.Audio.SampleRate,
		Language:   cfg.Audio.Language,
		Encoding:   "LINEAR16",
	}

	// Note storage backend
	var notes repositories.NoteRepository
	switch cfg.Storage.Backend {
	case "mongo":
		mongoClient, err := adaptermongo.NewClient(cfg.Storage.MongoURI, cfg.Storage.MongoDatabase, logger)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			mongoClient.Close(ctx)
		}()
		notes = adaptermongo.NewNoteRepository(mongoClient.Database)
	default:
		fileNotes, err := filestore.NewNoteRepository(cfg.NotesDir, logger)
		if err != nil {
			logger.Fatal("Failed to open notes directory", zap.Error(err))
		}
		defer fileNotes.Close()
		notes = fileNotes
	}

	// Speech to text
	var speech repositories.SpeechToText
	if cfg.Audio.STTProvider == "mock" {
		speech = stt.NewMockSpeechToText(logger)
	} else {
		speech = stt.NewGoogleSpeechToText(logger)
	}

	// Analysis providers; only configured ones are registered.
	analyzers := make(map[string]repositories.MeetingAnalyzer)
	if cfg.Analysis.GroqAPIKey != "" {
		groq, err := llm.NewGroqAnalyzer(llm.GroqConfig{
			APIKey: cfg.Analysis.GroqAPIKey,
			Model:  cfg.Analysis.GroqModel,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Groq analyzer", zap.Error(err))
		}
		analyzers["groq"] = groq
	}
	if cfg.Analysis.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiAnalyzer(context.Background(),
			cfg.Analysis.GeminiAPIKey, cfg.Analysis.GeminiModel, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Gemini analyzer", zap.Error(err))
		}
		analyzers["gemini"] = gemini
	}
	if len(analyzers) == 0 {
		logger.Warn("No analysis provider configured, summaries fall back to naive analysis")
	}

	meetings := usecase.NewMeetingService(
		notes,
		speech,
		analyzers,
		cfg.Analysis.DefaultProvider,
		time.Duration(cfg.Analysis.TimeoutSeconds)*time.Second,
		audioConfig,
		logger,
	)

	// Audio capture and the shared recording session
	audioCapture := capture.New(logger, cfg.Audio.SampleRate, cfg.Audio.ChunkSeconds)
	recorder := websocket.NewRecorder(audioCapture, speech, audioConfig, logger)
	hub := websocket.NewHub(recorder, logger)
	go hub.Run()

	// Initialize API routes
	tokens := auth.NewService(cfg.Auth.Secret)
	handler := api.NewHandler(meetings, audioCapture, hub, tokens,
		cfg.UploadsDir, cfg.Upload.MaxBytes, logger)
	api.InitRoutes(e, handler)

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Meeting notes server started",
		zap.String("port", cfg.Port),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("stt", cfg.Audio.STTProvider))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")
	recorder.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
