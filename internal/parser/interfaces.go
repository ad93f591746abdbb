// Package parser turns raw transcript text into typed, per-form records.
package parser

import (
	"context"

	"github.com/taxresolve/transcript-engine/internal/model"
)

// Observation describes one field extraction attempt for the learning
// subsystem.
type Observation struct {
	PatternID string
	FieldName string
	FieldType model.FieldType
	Pattern   string
	Value     string
	Context   string
	Success   bool
}

// Observer receives extraction attempts and returns the scored result.
// The learning service implements this; a nil observer disables
// scoring and history.
type Observer interface {
	ObserveExtraction(ctx context.Context, obs Observation) (extractionID string, confidence float64)
}
