package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/taxresolve/transcript-engine/internal/model"
)

// SaveExtractionResult upserts one extraction attempt. Feedback updates
// rewrite the same row.
func (s *SQLiteStorage) SaveExtractionResult(ctx context.Context, res *model.ExtractionResult) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExtractionResult(res); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO extraction_results (
			extraction_id, pattern_id, field_name, extracted_value,
			expected_value, context_text, confidence_score,
			confidence_level, success, user_feedback, feedback_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(extraction_id) DO UPDATE SET
			expected_value = excluded.expected_value,
			success = excluded.success,
			user_feedback = excluded.user_feedback,
			feedback_at = excluded.feedback_at`,
		res.ExtractionID, res.PatternID, res.FieldName, res.ExtractedValue,
		nullable(res.ExpectedValue), res.ContextText, res.ConfidenceScore,
		string(res.ConfidenceLevel), res.Success,
		nullable(res.UserFeedback), res.FeedbackTimestamp, res.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to save extraction result: %w", err)
	}
	return nil
}

// LoadExtractionResults reads the full extraction history, oldest
// first.
func (s *SQLiteStorage) LoadExtractionResults(ctx context.Context) ([]*model.ExtractionResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT extraction_id, pattern_id, field_name, extracted_value,
			expected_value, context_text, confidence_score,
			confidence_level, success, user_feedback, feedback_at, created_at
		FROM extraction_results
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query extraction results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*model.ExtractionResult
	for rows.Next() {
		var r model.ExtractionResult
		var expected, feedback sql.NullString
		var feedbackAt sql.NullTime
		var level string
		if err := rows.Scan(
			&r.ExtractionID, &r.PatternID, &r.FieldName, &r.ExtractedValue,
			&expected, &r.ContextText, &r.ConfidenceScore,
			&level, &r.Success, &feedback, &feedbackAt, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan extraction result: %w", err)
		}
		r.ExpectedValue = expected.String
		r.UserFeedback = feedback.String
		r.ConfidenceLevel = model.ConfidenceLevel(level)
		if feedbackAt.Valid {
			t := feedbackAt.Time
			r.FeedbackTimestamp = &t
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate extraction results: %w", err)
	}
	return out, nil
}
