package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
)

// minAnalyzableLength is the transcript length below which no API call is
// made; shorter text cannot produce a meaningful analysis.
const minAnalyzableLength = 10

// analysisSystemPrompt pins the providers to machine-readable output.
const analysisSystemPrompt = "Return ONLY valid JSON, no markdown."

// analysisPrompt builds the meeting-analysis prompt. Transcripts are clipped
// to keep token usage bounded.
func analysisPrompt(transcript string) string {
	const maxPromptChars = 2000
	if len(transcript) > maxPromptChars {
		transcript = transcript[:maxPromptChars]
	}
	return fmt.Sprintf(`Analyze briefly:

%s

Return JSON:
{
  "summary": "2-3 sentences",
  "actions": ["item 1"],
  "decisions": ["decision 1"],
  "key_points": ["point 1"]
}`, transcript)
}

// parseAnalysis decodes a provider response, tolerating markdown code fences
// around the JSON body.
func parseAnalysis(content string) (entities.Analysis, error) {
	if idx := strings.Index(content, "```json"); idx >= 0 {
		content = content[idx+len("```json"):]
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
	} else if idx := strings.Index(content, "```"); idx >= 0 {
		content = content[idx+len("```"):]
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
	}

	var analysis entities.Analysis
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &analysis); err != nil {
		return entities.Analysis{}, fmt.Errorf("provider returned malformed analysis: %w", err)
	}
	return analysis, nil
}

// NaiveAnalysis is the no-API fallback: the first sentences stand in for a
// summary and key points, with no actions or decisions.
func NaiveAnalysis(transcript string) entities.Analysis {
	var sentences []string
	for _, s := range strings.Split(transcript, ".") {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}

	summary := transcript
	if len(summary) > 200 {
		summary = summary[:200]
	}
	if len(sentences) >= 2 {
		summary = strings.Join(sentences[:2], ". ") + "."
	}

	keyPoints := sentences
	if len(keyPoints) > 3 {
		keyPoints = keyPoints[:3]
	}

	return entities.Analysis{
		Summary:   summary,
		KeyPoints: keyPoints,
		Actions:   []string{},
		Decisions: []string{},
	}
}
