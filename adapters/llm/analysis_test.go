package llm

import "testing"

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		summary string
	}{
		{
			name:    "plain JSON",
			content: `{"summary": "We agreed on the plan.", "actions": ["ship it"], "decisions": [], "key_points": ["plan"]}`,
			summary: "We agreed on the plan.",
		},
		{
			name: "json code fence",
			content: "```json\n{\"summary\": \"Fenced.\", \"actions\": [], \"decisions\": [], \"key_points\": []}\n```",
			summary: "Fenced.",
		},
		{
			name: "bare code fence",
			content: "```\n{\"summary\": \"Bare.\", \"actions\": [], \"decisions\": [], \"key_points\": []}\n```",
			summary: "Bare.",
		},
		{
			name:    "not JSON",
			content: "Here is your summary: the meeting went well.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := parseAnalysis(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseAnalysis() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && analysis.Summary != tt.summary {
				t.Errorf("expected summary %q, got %q", tt.summary, analysis.Summary)
			}
		})
	}
}

func TestNaiveAnalysis(t *testing.T) {
	text := "We discussed the roadmap. The launch moves to June. Marketing needs new copy. Budget stays flat."
	analysis := NaiveAnalysis(text)

	if analysis.Summary != "We discussed the roadmap. The launch moves to June." {
		t.Errorf("unexpected summary: %q", analysis.Summary)
	}
	if len(analysis.KeyPoints) != 3 {
		t.Errorf("expected 3 key points, got %d", len(analysis.KeyPoints))
	}
	if len(analysis.Actions) != 0 || len(analysis.Decisions) != 0 {
		t.Error("naive analysis must not invent actions or decisions")
	}
}

func TestNaiveAnalysisShortText(t *testing.T) {
	analysis := NaiveAnalysis("One line only")
	if analysis.Summary != "One line only" {
		t.Errorf("unexpected summary: %q", analysis.Summary)
	}
}
