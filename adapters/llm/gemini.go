package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
	"github.com/adhikari10/AI-Meeting-Notes/domain/repositories"
)

const (
	defaultGeminiModel  = "gemini-2.0-flash"
	geminiMaxTokens     = 400
	geminiTemperature   = float32(0.2)
	geminiRetryAttempts = 3
)

// GeminiAnalyzer implements MeetingAnalyzer using Google's Gemini API.
type GeminiAnalyzer struct {
	client *genai.Client
	logger *zap.Logger
	model  string
}

var _ repositories.MeetingAnalyzer = (*GeminiAnalyzer)(nil)

// NewGeminiAnalyzer creates a Gemini analyzer.
func NewGeminiAnalyzer(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiAnalyzer{client: client, logger: logger, model: model}, nil
}

// Analyze implements repositories.MeetingAnalyzer.
func (g *GeminiAnalyzer) Analyze(ctx context.Context, transcript string) (entities.Analysis, error) {
	if len(transcript) < minAnalyzableLength {
		return entities.Analysis{KeyPoints: []string{}, Actions: []string{}, Decisions: []string{}}, nil
	}

	contents := []*genai.Content{
		genai.NewContentFromText(analysisSystemPrompt, genai.RoleUser),
		genai.NewContentFromText(analysisPrompt(transcript), genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(geminiTemperature),
		MaxOutputTokens: geminiMaxTokens,
	}

	var response *genai.GenerateContentResponse
	var err error
	for attempt := 0; attempt < geminiRetryAttempts; attempt++ {
		response, err = g.client.Models.GenerateContent(ctx, g.model, contents, config)
		if err == nil {
			break
		}

		g.logger.Warn("Failed to generate analysis, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(err))

		if attempt < geminiRetryAttempts-1 {
			select {
			case <-ctx.Done():
				return entities.Analysis{}, ctx.Err()
			case <-time.After(time.Duration(attempt+1) * time.Second):
			}
		}
	}
	if err != nil {
		return entities.Analysis{}, fmt.Errorf("gemini analysis failed: %w", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return entities.Analysis{}, fmt.Errorf("gemini returned no candidates")
	}

	var text string
	for _, part := range response.Candidates[0].Content.Parts {
		text += part.Text
	}
	if text == "" {
		return entities.Analysis{}, fmt.Errorf("gemini returned empty content")
	}

	analysis, err := parseAnalysis(text)
	if err != nil {
		return entities.Analysis{}, err
	}

	g.logger.Info("Gemini analysis completed",
		zap.Int("transcriptChars", len(transcript)),
		zap.Int("keyPoints", len(analysis.KeyPoints)),
		zap.Int("actions", len(analysis.Actions)))

	return analysis, nil
}
