// Package storage provides the persistence layer for learning state.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/taxresolve/transcript-engine/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validatePatternPerformance(perf *model.PatternPerformance) error {
	if perf == nil {
		return fmt.Errorf("%w: perf", ErrNilParameter)
	}
	if err := validateString(perf.PatternID, "perf.PatternID"); err != nil {
		return err
	}
	return validateString(perf.OriginalPattern, "perf.OriginalPattern")
}

func validateExtractionResult(res *model.ExtractionResult) error {
	if res == nil {
		return fmt.Errorf("%w: res", ErrNilParameter)
	}
	if err := validateString(res.ExtractionID, "res.ExtractionID"); err != nil {
		return err
	}
	return validateString(res.PatternID, "res.PatternID")
}

func validateSuggestion(sug *model.PatternSuggestion) error {
	if sug == nil {
		return fmt.Errorf("%w: sug", ErrNilParameter)
	}
	if err := validateString(sug.SuggestionID, "sug.SuggestionID"); err != nil {
		return err
	}
	return validateString(sug.SuggestedRegex, "sug.SuggestedRegex")
}
