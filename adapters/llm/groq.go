package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
	"github.com/adhikari10/AI-Meeting-Notes/domain/repositories"
)

const (
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"
	defaultGroqModel   = "llama-3.3-70b-versatile"
)

// GroqConfig holds configuration for the Groq analyzer.
// Required fields:
// - APIKey: Your Groq API key
// Optional fields with defaults:
// - BaseURL: OpenAI-compatible endpoint (default: "https://api.groq.com/openai/v1")
// - Model: chat model id (default: "llama-3.3-70b-versatile")
type GroqConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// GroqAnalyzer implements MeetingAnalyzer against Groq's OpenAI-compatible
// chat completions API.
type GroqAnalyzer struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ repositories.MeetingAnalyzer = (*GroqAnalyzer)(nil)

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewGroqAnalyzer creates a Groq analyzer.
func NewGroqAnalyzer(config GroqConfig, logger *zap.Logger) (*GroqAnalyzer, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("groq API key is required")
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}
	model := config.Model
	if model == "" {
		model = defaultGroqModel
	}

	return &GroqAnalyzer{
		apiKey:     config.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}, nil
}

// Analyze implements repositories.MeetingAnalyzer.
func (g *GroqAnalyzer) Analyze(ctx context.Context, transcript string) (entities.Analysis, error) {
	if len(transcript) < minAnalyzableLength {
		return entities.Analysis{KeyPoints: []string{}, Actions: []string{}, Decisions: []string{}}, nil
	}

	reqBody := chatCompletionRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: analysisSystemPrompt},
			{Role: "user", Content: analysisPrompt(transcript)},
		},
		MaxTokens:   400,
		Temperature: 0.2,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return entities.Analysis{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return entities.Analysis{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return entities.Analysis{}, fmt.Errorf("groq request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return entities.Analysis{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		g.logger.Error("Groq API error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return entities.Analysis{}, fmt.Errorf("groq API returned status %d", resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return entities.Analysis{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if completion.Error != nil {
		return entities.Analysis{}, fmt.Errorf("groq API error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return entities.Analysis{}, fmt.Errorf("groq returned no choices")
	}

	analysis, err := parseAnalysis(completion.Choices[0].Message.Content)
	if err != nil {
		return entities.Analysis{}, err
	}

	g.logger.Info("Groq analysis completed",
		zap.String("model", g.model),
		zap.Int("transcriptChars", len(transcript)))

	return analysis, nil
}
