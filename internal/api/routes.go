package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/adhikari10/AI-Meeting-Notes/domain/repositories"
	"github.com/adhikari10/AI-Meeting-Notes/internal/auth"
	"github.com/adhikari10/AI-Meeting-Notes/internal/websocket"
	"github.com/adhikari10/AI-Meeting-Notes/usecase"
)

// silenceThreshold is the minimum average level for a device to count as
// active during auto-detect.
const silenceThreshold = 0.001

// probeRounds is how many probe passes are averaged per device.
const probeRounds = 3

// allowedUploadExtensions are the audio container formats accepted by the
// upload endpoint.
var allowedUploadExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
	".webm": true,
}

// Handler bundles the dependencies behind the REST surface.
type Handler struct {
	meetings       *usecase.MeetingService
	capture        repositories.AudioCapture
	hub            *websocket.Hub
	tokens         *auth.Service
	uploadsDir     string
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewHandler creates the REST handler. A nil token service disables auth.
func NewHandler(
	meetings *usecase.MeetingService,
	capture repositories.AudioCapture,
	hub *websocket.Hub,
	tokens *auth.Service,
	uploadsDir string,
	maxUploadBytes int64,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		meetings:       meetings,
		capture:        capture,
		hub:            hub,
		tokens:         tokens,
		uploadsDir:     uploadsDir,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// InitRoutes initializes all API routes.
func InitRoutes(e *echo.Echo, h *Handler) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "meeting-notes-server",
		})
	})

	g := e.Group("/api")
	g.GET("/devices", h.listDevices)
	g.GET("/auto-detect-device", h.autoDetectDevice)
	g.POST("/process-file", h.processFile)
	g.POST("/generate-summary", h.generateSummary)
	g.GET("/notes", h.listNotes)
	g.GET("/notes/:id", h.getNote)
	g.DELETE("/notes/:id", h.deleteNote)
	g.GET("/notes/:id/download", h.downloadNote)

	if h.tokens != nil {
		g.POST("/auth/token", h.issueToken)
	}

	e.GET("/ws", h.websocketUpgrade)
}

func (h *Handler) listDevices(c echo.Context) error {
	devices, err := h.capture.ListDevices(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list capture devices", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "device_enumeration_failed",
			Message: err.Error(),
		})
	}

	response := make([]DeviceResponse, 0, len(devices))
	for _, d := range devices {
		response = append(response, DeviceResponse{
			ID:     d.ID,
			Name:   d.Name,
			Inputs: d.Inputs,
			Rate:   d.SampleRate,
		})
	}
	return c.JSON(http.StatusOK, response)
}

// autoDetectDevice samples every device a few times and picks the loudest.
// Devices below the silence threshold are ignored.
func (h *Handler) autoDetectDevice(c echo.Context) error {
	ctx := c.Request().Context()

	totals := make(map[int]float64)
	counts := make(map[int]int)
	names := make(map[int]string)
	for round := 0; round < probeRounds; round++ {
		levels, err := h.capture.Probe(ctx)
		if err != nil {
			h.logger.Error("Device probe failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "probe_failed",
				Message: err.Error(),
			})
		}
		for _, dl := range levels {
			totals[dl.Device.ID] += dl.Level
			counts[dl.Device.ID]++
			names[dl.Device.ID] = dl.Device.Name
		}
	}

	bestID := -1
	bestLevel := 0.0
	for id, total := range totals {
		level := total / float64(counts[id])
		if level >= silenceThreshold && level > bestLevel {
			bestID = id
			bestLevel = level
		}
	}

	if bestID < 0 {
		return c.JSON(http.StatusOK, AutoDetectResponse{
			Success: false,
			Message: "No active audio detected. Play some audio and try again.",
		})
	}

	h.logger.Info("Auto-detected capture device",
		zap.Int("deviceID", bestID),
		zap.String("name", names[bestID]),
		zap.Float64("level", bestLevel))

	return c.JSON(http.StatusOK, AutoDetectResponse{
		Success:    true,
		DeviceID:   bestID,
		DeviceName: names[bestID],
		Level:      bestLevel,
	})
}

func (h *Handler) processFile(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_file",
			Message: "No file uploaded",
		})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedUploadExtensions[ext] {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "unsupported_format",
			Message: fmt.Sprintf("Unsupported file type %q", ext),
		})
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "file_too_large",
			Message: fmt.Sprintf("File exceeds the %d MB limit", h.maxUploadBytes/(1024*1024)),
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "upload_failed",
			Message: err.Error(),
		})
	}
	defer src.Close()

	if err := os.MkdirAll(h.uploadsDir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "upload_failed",
			Message: err.Error(),
		})
	}
	tempPath := filepath.Join(h.uploadsDir, uuid.NewString()+ext)
	dst, err := os.Create(tempPath)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "upload_failed",
			Message: err.Error(),
		})
	}
	defer os.Remove(tempPath)

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "upload_failed",
			Message: err.Error(),
		})
	}
	dst.Close()

	opts := usecase.ProcessOptions{
		GenerateSummary: formBool(c, "generateSummary"),
		ExtractActions:  formBool(c, "extractActions"),
		DetectDecisions: formBool(c, "detectDecisions"),
		Provider:        c.FormValue("model"),
	}

	result, err := h.meetings.ProcessFile(c.Request().Context(), tempPath, fileHeader.Filename, opts)
	if err != nil {
		h.logger.Error("File processing failed",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "processing_failed",
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) generateSummary(c echo.Context) error {
	var req GenerateSummaryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	entries := h.hub.Recorder().LiveTranscript()
	result, err := h.meetings.GenerateSummary(c.Request().Context(), entries, req.Provider)
	if err != nil {
		if errors.Is(err, usecase.ErrNoTranscript) || errors.Is(err, usecase.ErrTranscriptTooShort) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "transcript_unavailable",
				Message: err.Error(),
			})
		}
		h.logger.Error("Summary generation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "analysis_failed",
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) listNotes(c echo.Context) error {
	notes, err := h.meetings.Notes().List(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list notes", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "listing_failed",
			Message: err.Error(),
		})
	}

	items := make([]NoteListItem, 0, len(notes))
	for _, note := range notes {
		items = append(items, NoteListItem{
			ID:       note.ID,
			Title:    note.Title,
			Date:     note.DateLabel(),
			Preview:  note.Preview(),
			Duration: note.Duration,
			Type:     string(note.Source),
		})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) getNote(c echo.Context) error {
	note, err := h.meetings.Notes().Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNoteNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "note_not_found",
				Message: "Note not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "lookup_failed",
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, note)
}

func (h *Handler) deleteNote(c echo.Context) error {
	err := h.meetings.Notes().Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNoteNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "note_not_found",
				Message: "Note not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "delete_failed",
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) downloadNote(c echo.Context) error {
	note, err := h.meetings.Notes().Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNoteNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "note_not_found",
				Message: "Note not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "lookup_failed",
			Message: err.Error(),
		})
	}

	filename := note.ID + ".txt"
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(usecase.DownloadText(note)))
}

func (h *Handler) issueToken(c echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}
	clientID := req.ClientID
	if clientID == "" {
		clientID = uuid.NewString()
	}

	token, expiresAt, err := h.tokens.GenerateClientToken(clientID)
	if err != nil {
		h.logger.Error("Failed to generate client token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate token",
		})
	}
	return c.JSON(http.StatusOK, TokenResponse{Token: token, ExpiresAt: expiresAt})
}

// websocketUpgrade validates the bearer token when auth is enabled, then
// hands the connection to the hub.
func (h *Handler) websocketUpgrade(c echo.Context) error {
	if h.tokens != nil {
		var token string
		authHeader := c.Request().Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if token == "" {
			// Browsers cannot set headers on websocket upgrades.
			token = c.QueryParam("token")
		}
		if token == "" {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "missing_token",
				Message: "Bearer token required",
			})
		}
		if _, err := h.tokens.ValidateToken(token); err != nil {
			h.logger.Warn("WebSocket connection rejected", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "invalid_token",
				Message: "Invalid or expired token",
			})
		}
	}
	return websocket.HandleWebSocket(h.hub, c, h.logger)
}

func formBool(c echo.Context, field string) bool {
	switch strings.ToLower(c.FormValue(field)) {
	case "true", "1", "on", "yes":
		return true
	default:
		return false
	}
}
