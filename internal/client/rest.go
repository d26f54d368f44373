package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
	"github.com/adhikari10/AI-Meeting-Notes/internal/api"
	"github.com/adhikari10/AI-Meeting-Notes/usecase"
)

// REST talks to the server's HTTP API. Used by the command line client.
type REST struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewREST creates a REST client for the given base URL, e.g.
// "http://localhost:8080".
func NewREST(baseURL, token string, logger *zap.Logger) *REST {
	return &REST{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Minute},
		logger:     logger,
	}
}

func (r *REST) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr api.ErrorResponse
		if json.Unmarshal(payload, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Message)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(payload, out)
}

// Devices lists the server's capture devices.
func (r *REST) Devices(ctx context.Context) ([]api.DeviceResponse, error) {
	var devices []api.DeviceResponse
	err := r.do(ctx, http.MethodGet, "/api/devices", nil, "", &devices)
	return devices, err
}

// AutoDetect asks the server to find the device currently producing audio.
func (r *REST) AutoDetect(ctx context.Context) (*api.AutoDetectResponse, error) {
	var result api.AutoDetectResponse
	if err := r.do(ctx, http.MethodGet, "/api/auto-detect-device", nil, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Notes lists saved notes, newest first.
func (r *REST) Notes(ctx context.Context) ([]api.NoteListItem, error) {
	var items []api.NoteListItem
	err := r.do(ctx, http.MethodGet, "/api/notes", nil, "", &items)
	return items, err
}

// Note fetches one note in full.
func (r *REST) Note(ctx context.Context, id string) (*entities.Note, error) {
	var note entities.Note
	if err := r.do(ctx, http.MethodGet, "/api/notes/"+id, nil, "", &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote removes a note.
func (r *REST) DeleteNote(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/api/notes/"+id, nil, "", nil)
}

// DownloadNote fetches the plain-text rendering of a note.
func (r *REST) DownloadNote(ctx context.Context, id string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/api/notes/"+id+"/download", nil)
	if err != nil {
		return "", err
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: unexpected status %d", resp.StatusCode)
	}
	payload, err := io.ReadAll(resp.Body)
	return string(payload), err
}

// GenerateSummary analyzes the server's live transcript.
func (r *REST) GenerateSummary(ctx context.Context, provider string) (*usecase.SummaryResult, error) {
	body, err := json.Marshal(api.GenerateSummaryRequest{Provider: provider})
	if err != nil {
		return nil, err
	}
	var result usecase.SummaryResult
	if err := r.do(ctx, http.MethodPost, "/api/generate-summary",
		bytes.NewReader(body), "application/json", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ProcessFile uploads an audio file for transcription and analysis. The
// upload policy must have been checked first.
func (r *REST) ProcessFile(ctx context.Context, path string, opts usecase.ProcessOptions) (*usecase.ProcessFileResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	fields := map[string]string{
		"generateSummary": fmt.Sprintf("%t", opts.GenerateSummary),
		"extractActions":  fmt.Sprintf("%t", opts.ExtractActions),
		"detectDecisions": fmt.Sprintf("%t", opts.DetectDecisions),
		"model":           opts.Provider,
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	var result usecase.ProcessFileResult
	if err := r.do(ctx, http.MethodPost, "/api/process-file",
		&buf, writer.FormDataContentType(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Token requests a bearer token from a server running with auth enabled.
func (r *REST) Token(ctx context.Context, clientID string) (*api.TokenResponse, error) {
	body, err := json.Marshal(api.TokenRequest{ClientID: clientID})
	if err != nil {
		return nil, err
	}
	var result api.TokenResponse
	if err := r.do(ctx, http.MethodPost, "/api/auth/token",
		bytes.NewReader(body), "application/json", &result); err != nil {
		return nil, err
	}
	return &result, nil
}
