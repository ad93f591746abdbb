package model

import "time"

// FieldType classifies what kind of value a pattern is expected to
// capture, used by the confidence scorer's value validation.
type FieldType string

// Field types recognized by the scorer.
const (
	FieldTypeIncome      FieldType = "income"
	FieldTypeWithholding FieldType = "withholding"
	FieldTypeAmount      FieldType = "amount"
	FieldTypeIdentifier  FieldType = "identifier"
	FieldTypeDate        FieldType = "date"
	FieldTypeStatus      FieldType = "status"
	FieldTypeText        FieldType = "text"
)

// ConfidenceLevel bands a numeric confidence score.
type ConfidenceLevel string

// Confidence bands.
const (
	ConfidenceHigh    ConfidenceLevel = "high"
	ConfidenceMedium  ConfidenceLevel = "medium"
	ConfidenceLow     ConfidenceLevel = "low"
	ConfidenceUnknown ConfidenceLevel = "unknown"
)

// LevelForScore maps a score onto its confidence band.
func LevelForScore(score float64) ConfidenceLevel {
	switch {
	case score >= 0.8:
		return ConfidenceHigh
	case score >= 0.6:
		return ConfidenceMedium
	case score >= 0.3:
		return ConfidenceLow
	default:
		return ConfidenceUnknown
	}
}

// PatternPerformance tracks the running statistics for one extraction
// rule, identified by (form type, field name). Mutated only through the
// learning service.
type PatternPerformance struct {
	LastUpdated       time.Time `json:"last_updated"`
	PatternID         string    `json:"pattern_id"`
	FormType          string    `json:"form_type"`
	FieldName         string    `json:"field_name"`
	OriginalPattern   string    `json:"original_pattern"`
	EnhancedPattern   string    `json:"enhanced_pattern,omitempty"`
	FieldType         FieldType `json:"field_type"`
	SuccessCount      int       `json:"success_count"`
	FailureCount      int       `json:"failure_count"`
	AverageConfidence float64   `json:"average_confidence"`
	IsActive          bool      `json:"is_active"`
}

// TotalAttempts is the number of recorded extraction attempts.
func (p *PatternPerformance) TotalAttempts() int {
	return p.SuccessCount + p.FailureCount
}

// SuccessRate is successes over total attempts, 0 with no history.
func (p *PatternPerformance) SuccessRate() float64 {
	total := p.TotalAttempts()
	if total == 0 {
		return 0
	}
	return float64(p.SuccessCount) / float64(total)
}

// ActivePattern is the pattern the extractor should use: the enhanced
// pattern when one has been adopted, otherwise the original.
func (p *PatternPerformance) ActivePattern() string {
	if p.EnhancedPattern != "" {
		return p.EnhancedPattern
	}
	return p.OriginalPattern
}

// Feedback outcomes recorded on an extraction result. An extraction
// starts with no feedback and both outcomes are terminal.
const (
	FeedbackCorrect   = "correct"
	FeedbackIncorrect = "incorrect"
)

// ExtractionResult records one extraction attempt, its confidence, and
// any feedback later attached to it. Append-only history.
type ExtractionResult struct {
	Timestamp         time.Time       `json:"timestamp"`
	FeedbackTimestamp *time.Time      `json:"feedback_timestamp,omitempty"`
	ExtractionID      string          `json:"extraction_id"`
	PatternID         string          `json:"pattern_id"`
	FieldName         string          `json:"field_name"`
	ExtractedValue    string          `json:"extracted_value"`
	ExpectedValue     string          `json:"expected_value,omitempty"`
	ContextText       string          `json:"context_text"`
	UserFeedback      string          `json:"user_feedback,omitempty"`
	ConfidenceLevel   ConfidenceLevel `json:"confidence_level"`
	ConfidenceScore   float64         `json:"confidence_score"`
	Success           bool            `json:"success"`
}

// UserFeedback is a user's judgement on one extraction result.
type UserFeedback struct {
	Timestamp    time.Time `json:"timestamp"`
	FeedbackID   string    `json:"feedback_id"`
	ExtractionID string    `json:"extraction_id"`
	CorrectValue string    `json:"correct_value,omitempty"`
	Comments     string    `json:"comments,omitempty"`
	IsCorrect    bool      `json:"is_correct"`
}

// PatternSuggestion is a candidate replacement pattern generated from a
// failed extraction. Suggestions are never applied automatically.
type PatternSuggestion struct {
	CreatedAt      time.Time `json:"created_at"`
	SuggestionID   string    `json:"suggestion_id"`
	PatternID      string    `json:"pattern_id"`
	SuggestedRegex string    `json:"suggested_regex"`
	Reasoning      string    `json:"reasoning"`
	TestCases      []string  `json:"test_cases"`
	Confidence     float64   `json:"confidence"`
	IsImplemented  bool      `json:"is_implemented"`
}

// PatternStatistics is a rollup across the learning store.
type PatternStatistics struct {
	FormType               string  `json:"form_type,omitempty"`
	TotalPatterns          int     `json:"total_patterns"`
	ActivePatterns         int     `json:"active_patterns"`
	TotalExtractions       int     `json:"total_extractions"`
	SuccessfulExtractions  int     `json:"successful_extractions"`
	PatternsWithFeedback   int     `json:"patterns_with_feedback"`
	SuggestionsGenerated   int     `json:"suggestions_generated"`
	SuggestionsImplemented int     `json:"suggestions_implemented"`
	OverallSuccessRate     float64 `json:"overall_success_rate"`
	AverageConfidence      float64 `json:"average_confidence"`
}
