package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/taxresolve/transcript-engine/internal/model"
)

// SaveSuggestion upserts one pattern suggestion. Test cases are stored
// as a JSON array.
func (s *SQLiteStorage) SaveSuggestion(ctx context.Context, sug *model.PatternSuggestion) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSuggestion(sug); err != nil {
		return err
	}

	testCases, err := json.Marshal(sug.TestCases)
	if err != nil {
		return fmt.Errorf("failed to marshal test cases: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pattern_suggestions (
			suggestion_id, pattern_id, suggested_regex, reasoning,
			test_cases, confidence, is_implemented, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(suggestion_id) DO UPDATE SET
			is_implemented = excluded.is_implemented`,
		sug.SuggestionID, sug.PatternID, sug.SuggestedRegex, sug.Reasoning,
		string(testCases), sug.Confidence, sug.IsImplemented, sug.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save suggestion: %w", err)
	}
	return nil
}

// LoadSuggestions reads every stored suggestion, oldest first.
func (s *SQLiteStorage) LoadSuggestions(ctx context.Context) ([]*model.PatternSuggestion, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT suggestion_id, pattern_id, suggested_regex, reasoning,
			test_cases, confidence, is_implemented, created_at
		FROM pattern_suggestions
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*model.PatternSuggestion
	for rows.Next() {
		var sg model.PatternSuggestion
		var testCases sql.NullString
		if err := rows.Scan(
			&sg.SuggestionID, &sg.PatternID, &sg.SuggestedRegex, &sg.Reasoning,
			&testCases, &sg.Confidence, &sg.IsImplemented, &sg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		if testCases.Valid && testCases.String != "" {
			if err := json.Unmarshal([]byte(testCases.String), &sg.TestCases); err != nil {
				return nil, fmt.Errorf("failed to unmarshal test cases: %w", err)
			}
		}
		out = append(out, &sg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate suggestions: %w", err)
	}
	return out, nil
}
