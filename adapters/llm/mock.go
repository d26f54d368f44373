package llm

import (
	"context"

	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
	"github.com/adhikari10/AI-Meeting-Notes/domain/repositories"
)

// MockAnalyzer returns a canned analysis, or a configured error.
type MockAnalyzer struct {
	Result entities.Analysis
	Err    error
	Calls  int
}

var _ repositories.MeetingAnalyzer = (*MockAnalyzer)(nil)

// Analyze implements repositories.MeetingAnalyzer.
func (m *MockAnalyzer) Analyze(ctx context.Context, transcript string) (entities.Analysis, error) {
	m.Calls++
	if m.Err != nil {
		return entities.Analysis{}, m.Err
	}
	return m.Result, nil
}
