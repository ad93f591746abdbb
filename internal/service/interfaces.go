// Package service defines the interfaces shared across application
// services.
package service

import (
	"context"
	"time"

	"github.com/taxresolve/transcript-engine/internal/model"
)

// DocumentParser turns raw transcript text into typed per-form records.
type DocumentParser interface {
	ParseDocument(ctx context.Context, text, fileName string, fc *model.FilingContext) ([]model.ParsedForm, error)
}

// AccountParser extracts an account transcript record from raw text.
type AccountParser interface {
	ParseFile(text, fileName string) (*model.AccountTranscriptRecord, error)
}

// LearningStore persists learning state between runs.
type LearningStore interface {
	SavePatternPerformance(ctx context.Context, perf *model.PatternPerformance) error
	SaveExtractionResult(ctx context.Context, res *model.ExtractionResult) error
	SaveSuggestion(ctx context.Context, sug *model.PatternSuggestion) error
	LoadPatternPerformance(ctx context.Context) ([]*model.PatternPerformance, error)
	LoadExtractionResults(ctx context.Context) ([]*model.ExtractionResult, error)
	LoadSuggestions(ctx context.Context) ([]*model.PatternSuggestion, error)
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// BatchStats shows the results of a batch parse run.
type BatchStats struct {
	TotalFiles  int
	ParsedFiles int
	FailedFiles int
	TotalForms  int
	Duration    time.Duration
}
