package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/taxresolve/transcript-engine/internal/model"
)

// SavePatternPerformance upserts the running statistics for a pattern.
func (s *SQLiteStorage) SavePatternPerformance(ctx context.Context, perf *model.PatternPerformance) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePatternPerformance(perf); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pattern_performance (
			pattern_id, form_type, field_name, original_pattern,
			enhanced_pattern, field_type, success_count, failure_count,
			average_confidence, is_active, last_updated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(pattern_id) DO UPDATE SET
			enhanced_pattern = excluded.enhanced_pattern,
			success_count = excluded.success_count,
			failure_count = excluded.failure_count,
			average_confidence = excluded.average_confidence,
			is_active = excluded.is_active,
			last_updated = excluded.last_updated`,
		perf.PatternID, perf.FormType, perf.FieldName, perf.OriginalPattern,
		nullable(perf.EnhancedPattern), string(perf.FieldType),
		perf.SuccessCount, perf.FailureCount,
		perf.AverageConfidence, perf.IsActive, perf.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to save pattern performance: %w", err)
	}
	return nil
}

// LoadPatternPerformance reads every tracked pattern.
func (s *SQLiteStorage) LoadPatternPerformance(ctx context.Context) ([]*model.PatternPerformance, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT pattern_id, form_type, field_name, original_pattern,
			enhanced_pattern, field_type, success_count, failure_count,
			average_confidence, is_active, last_updated
		FROM pattern_performance
		ORDER BY pattern_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pattern performance: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*model.PatternPerformance
	for rows.Next() {
		var p model.PatternPerformance
		var enhanced sql.NullString
		var fieldType string
		if err := rows.Scan(
			&p.PatternID, &p.FormType, &p.FieldName, &p.OriginalPattern,
			&enhanced, &fieldType, &p.SuccessCount, &p.FailureCount,
			&p.AverageConfidence, &p.IsActive, &p.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan pattern performance: %w", err)
		}
		p.EnhancedPattern = enhanced.String
		p.FieldType = model.FieldType(fieldType)
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pattern performance: %w", err)
	}
	return out, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
