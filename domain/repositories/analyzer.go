package repositories

import (
	"context"

	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
)

// MeetingAnalyzer abstracts the AI provider that turns a transcript into a
// summary, key points, action items, and decisions.
type MeetingAnalyzer interface {
	Analyze(ctx context.Context, transcript string) (entities.Analysis, error)
}
