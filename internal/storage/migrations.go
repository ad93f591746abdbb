package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version the application
// expects after migration.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial learning schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS pattern_performance (
					pattern_id TEXT PRIMARY KEY,
					form_type TEXT NOT NULL,
					field_name TEXT NOT NULL,
					original_pattern TEXT NOT NULL,
					enhanced_pattern TEXT,
					field_type TEXT NOT NULL,
					success_count INTEGER DEFAULT 0,
					failure_count INTEGER DEFAULT 0,
					average_confidence REAL DEFAULT 0,
					is_active INTEGER DEFAULT 1,
					last_updated DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_pattern_performance_form ON pattern_performance(form_type)`,

				`CREATE TABLE IF NOT EXISTS extraction_results (
					extraction_id TEXT PRIMARY KEY,
					pattern_id TEXT NOT NULL,
					field_name TEXT NOT NULL,
					extracted_value TEXT,
					expected_value TEXT,
					context_text TEXT,
					confidence_score REAL DEFAULT 0,
					confidence_level TEXT,
					success INTEGER DEFAULT 0,
					user_feedback TEXT,
					feedback_at DATETIME,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_extraction_results_pattern ON extraction_results(pattern_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add pattern suggestions",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS pattern_suggestions (
					suggestion_id TEXT PRIMARY KEY,
					pattern_id TEXT NOT NULL,
					suggested_regex TEXT NOT NULL,
					reasoning TEXT,
					test_cases TEXT,
					confidence REAL DEFAULT 0,
					is_implemented INTEGER DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_pattern_suggestions_pattern ON pattern_suggestions(pattern_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
