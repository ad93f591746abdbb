package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/taxresolve/transcript-engine/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func testPerformance(patternID string) *model.PatternPerformance {
	formType, fieldName := model.SplitPatternID(patternID)
	return &model.PatternPerformance{
		PatternID:         patternID,
		FormType:          formType,
		FieldName:         fieldName,
		OriginalPattern:   `Wages[:\s]*\$?([\d,.]+)`,
		FieldType:         model.FieldTypeIncome,
		SuccessCount:      3,
		FailureCount:      1,
		AverageConfidence: 0.72,
		IsActive:          true,
		LastUpdated:       time.Now().UTC(),
	}
}

func TestNewSQLiteStorage(t *testing.T) {
	tests := []struct {
		name    string
		dbPath  func(t *testing.T) string
		wantErr bool
	}{
		{
			name:    "creates database and parent directory",
			dbPath:  func(t *testing.T) string { return filepath.Join(t.TempDir(), "nested", "dir", "test.db") },
			wantErr: false,
		},
		{
			name:    "empty path",
			dbPath:  func(_ *testing.T) string { return "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewSQLiteStorage(tt.dbPath(t))
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSQLiteStorage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if store != nil {
				_ = store.Close()
			}
		})
	}
}

func TestMigrate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	var version int
	if err := store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("Schema version = %d, want %d", version, ExpectedSchemaVersion)
	}

	// Migrating an up-to-date database is a no-op.
	if err := store.Migrate(ctx); err != nil {
		t.Errorf("Second Migrate() failed: %v", err)
	}
}

func TestSavePatternPerformance(t *testing.T) {
	tests := []struct {
		perf    *model.PatternPerformance
		name    string
		wantErr bool
	}{
		{
			name: "valid performance",
			perf: testPerformance("W-2/Wages, Tips, and Other Compensation"),
		},
		{
			name:    "nil performance",
			perf:    nil,
			wantErr: true,
		},
		{
			name:    "missing pattern id",
			perf:    &model.PatternPerformance{OriginalPattern: "x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cleanup := createTestStorage(t)
			defer cleanup()

			err := store.SavePatternPerformance(context.Background(), tt.perf)
			if (err != nil) != tt.wantErr {
				t.Errorf("SavePatternPerformance() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPatternPerformanceRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	perf := testPerformance("W-2/Wages, Tips, and Other Compensation")

	if err := store.SavePatternPerformance(ctx, perf); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	// Upsert: a second save with updated counters rewrites the row.
	perf.SuccessCount = 10
	perf.EnhancedPattern = `(?i)wages[:\s]*\$?([\d,.]+)`
	if err := store.SavePatternPerformance(ctx, perf); err != nil {
		t.Fatalf("Failed to update: %v", err)
	}

	loaded, err := store.LoadPatternPerformance(ctx)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Loaded %d patterns, want 1", len(loaded))
	}

	got := loaded[0]
	if got.PatternID != perf.PatternID {
		t.Errorf("PatternID = %q, want %q", got.PatternID, perf.PatternID)
	}
	if got.FormType != "W-2" {
		t.Errorf("FormType = %q, want W-2", got.FormType)
	}
	if got.SuccessCount != 10 || got.FailureCount != 1 {
		t.Errorf("Counts = %d/%d, want 10/1", got.SuccessCount, got.FailureCount)
	}
	if got.EnhancedPattern != perf.EnhancedPattern {
		t.Errorf("EnhancedPattern = %q, want %q", got.EnhancedPattern, perf.EnhancedPattern)
	}
	if got.FieldType != model.FieldTypeIncome {
		t.Errorf("FieldType = %q, want %q", got.FieldType, model.FieldTypeIncome)
	}
	if !got.IsActive {
		t.Error("IsActive = false, want true")
	}
	if got.AverageConfidence != 0.72 {
		t.Errorf("AverageConfidence = %v, want 0.72", got.AverageConfidence)
	}
}

func TestExtractionResultRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	res := &model.ExtractionResult{
		Timestamp:       time.Now().UTC(),
		ExtractionID:    "ext-1",
		PatternID:       "W-2/Wages, Tips, and Other Compensation",
		FieldName:       "Wages, Tips, and Other Compensation",
		ExtractedValue:  "50,000.00",
		ContextText:     "Wages, tips, and other compensation: $50,000.00",
		ConfidenceScore: 0.84,
		ConfidenceLevel: model.ConfidenceHigh,
		Success:         true,
	}

	if err := store.SaveExtractionResult(ctx, res); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	// Feedback rewrites the same row.
	now := time.Now().UTC()
	res.UserFeedback = model.FeedbackIncorrect
	res.ExpectedValue = "55,000.00"
	res.FeedbackTimestamp = &now
	res.Success = false
	if err := store.SaveExtractionResult(ctx, res); err != nil {
		t.Fatalf("Failed to update with feedback: %v", err)
	}

	loaded, err := store.LoadExtractionResults(ctx)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Loaded %d results, want 1", len(loaded))
	}

	got := loaded[0]
	if got.ExtractionID != "ext-1" {
		t.Errorf("ExtractionID = %q, want ext-1", got.ExtractionID)
	}
	if got.UserFeedback != model.FeedbackIncorrect {
		t.Errorf("UserFeedback = %q, want %q", got.UserFeedback, model.FeedbackIncorrect)
	}
	if got.ExpectedValue != "55,000.00" {
		t.Errorf("ExpectedValue = %q, want 55,000.00", got.ExpectedValue)
	}
	if got.Success {
		t.Error("Success = true, want false after negative feedback")
	}
	if got.FeedbackTimestamp == nil {
		t.Error("FeedbackTimestamp = nil, want set")
	}
	if got.ConfidenceLevel != model.ConfidenceHigh {
		t.Errorf("ConfidenceLevel = %q, want %q", got.ConfidenceLevel, model.ConfidenceHigh)
	}
}

func TestExtractionResultWithoutFeedback(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	res := &model.ExtractionResult{
		Timestamp:       time.Now().UTC(),
		ExtractionID:    "ext-2",
		PatternID:       "1099-NEC/Nonemployee Compensation",
		FieldName:       "Nonemployee Compensation",
		ExtractedValue:  "12,500.00",
		ContextText:     "Nonemployee compensation: $12,500.00",
		ConfidenceScore: 0.6,
		ConfidenceLevel: model.ConfidenceMedium,
		Success:         true,
	}
	if err := store.SaveExtractionResult(ctx, res); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	loaded, err := store.LoadExtractionResults(ctx)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Loaded %d results, want 1", len(loaded))
	}
	if loaded[0].UserFeedback != "" {
		t.Errorf("UserFeedback = %q, want empty", loaded[0].UserFeedback)
	}
	if loaded[0].FeedbackTimestamp != nil {
		t.Error("FeedbackTimestamp set, want nil")
	}
}

func TestSuggestionRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	sug := &model.PatternSuggestion{
		CreatedAt:      time.Now().UTC(),
		SuggestionID:   "sug-1",
		PatternID:      "W-2/Wages, Tips, and Other Compensation",
		SuggestedRegex: `(?i)wages[:\s]*\$?([\d,]+\.?\d*)`,
		Reasoning:      "anchored on label preceding the corrected value",
		TestCases:      []string{"Wages: $50,000.00", "WAGES 1,000.00"},
		Confidence:     0.8,
	}

	if err := store.SaveSuggestion(ctx, sug); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	// Adoption flips is_implemented via upsert.
	sug.IsImplemented = true
	if err := store.SaveSuggestion(ctx, sug); err != nil {
		t.Fatalf("Failed to update: %v", err)
	}

	loaded, err := store.LoadSuggestions(ctx)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Loaded %d suggestions, want 1", len(loaded))
	}

	got := loaded[0]
	if got.SuggestionID != "sug-1" {
		t.Errorf("SuggestionID = %q, want sug-1", got.SuggestionID)
	}
	if got.SuggestedRegex != sug.SuggestedRegex {
		t.Errorf("SuggestedRegex = %q, want %q", got.SuggestedRegex, sug.SuggestedRegex)
	}
	if !got.IsImplemented {
		t.Error("IsImplemented = false, want true")
	}
	if len(got.TestCases) != 2 || got.TestCases[0] != "Wages: $50,000.00" {
		t.Errorf("TestCases = %v, want original two cases", got.TestCases)
	}
}

func TestValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	if err := store.SaveExtractionResult(ctx, nil); err == nil {
		t.Error("SaveExtractionResult(nil) succeeded, want error")
	}
	if err := store.SaveExtractionResult(ctx, &model.ExtractionResult{}); err == nil {
		t.Error("SaveExtractionResult(empty) succeeded, want error")
	}
	if err := store.SaveSuggestion(ctx, nil); err == nil {
		t.Error("SaveSuggestion(nil) succeeded, want error")
	}
	if err := store.SaveSuggestion(ctx, &model.PatternSuggestion{SuggestionID: "s"}); err == nil {
		t.Error("SaveSuggestion(missing fields) succeeded, want error")
	}
	//nolint:staticcheck // intentionally testing nil context handling
	if err := store.SavePatternPerformance(nil, testPerformance("W-2/Wages, Tips, and Other Compensation")); err == nil {
		t.Error("SavePatternPerformance(nil ctx) succeeded, want error")
	}
}
