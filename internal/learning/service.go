// Package learning scores extraction confidence, tracks per-pattern
// performance, and turns user feedback into pattern suggestions.
package learning

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taxresolve/transcript-engine/internal/catalog"
	"github.com/taxresolve/transcript-engine/internal/common"
	"github.com/taxresolve/transcript-engine/internal/model"
	"github.com/taxresolve/transcript-engine/internal/parser"
	"github.com/taxresolve/transcript-engine/internal/service"
)

// Service is the learning subsystem. It implements parser.Observer so a
// parser wired with it scores every extraction attempt. Persistence is
// write-through; the in-memory state stays authoritative within a
// process.
type Service struct {
	mu sync.Mutex

	catalog *catalog.Catalog
	store   service.LearningStore

	patterns        map[string]*model.PatternPerformance
	extractions     map[string]*model.ExtractionResult
	suggestions     map[string][]*model.PatternSuggestion
	suggestionIndex map[string]*model.PatternSuggestion
	contexts        map[string][]string
}

// maxContextHistory bounds how many successful contexts are kept per
// pattern for similarity scoring.
const maxContextHistory = 50

// NewService builds a learning service bound to a catalog. The store
// may be nil for a purely in-memory service.
func NewService(cat *catalog.Catalog, store service.LearningStore) *Service {
	return &Service{
		catalog:         cat,
		store:           store,
		patterns:        make(map[string]*model.PatternPerformance),
		extractions:     make(map[string]*model.ExtractionResult),
		suggestions:     make(map[string][]*model.PatternSuggestion),
		suggestionIndex: make(map[string]*model.PatternSuggestion),
		contexts:        make(map[string][]string),
	}
}

// Load restores persisted state, reapplying adopted patterns as
// catalog overrides.
func (s *Service) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	perfs, err := s.store.LoadPatternPerformance(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pattern performance: %w", err)
	}
	results, err := s.store.LoadExtractionResults(ctx)
	if err != nil {
		return fmt.Errorf("failed to load extraction results: %w", err)
	}
	sugs, err := s.store.LoadSuggestions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load suggestions: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range perfs {
		s.patterns[p.PatternID] = p
		if p.EnhancedPattern != "" {
			formType, fieldName := model.SplitPatternID(p.PatternID)
			if err := s.catalog.Override(formType, fieldName, p.EnhancedPattern); err != nil {
				slog.Warn("could not reapply adopted pattern",
					"pattern_id", p.PatternID, "error", err)
			}
		}
	}
	for _, r := range results {
		s.extractions[r.ExtractionID] = r
		if r.Success {
			s.rememberContext(r.PatternID, r.ContextText)
		}
	}
	for _, sg := range sugs {
		s.suggestions[sg.PatternID] = append(s.suggestions[sg.PatternID], sg)
		s.suggestionIndex[sg.SuggestionID] = sg
	}
	return nil
}

// ObserveExtraction records one extraction attempt and returns its
// identifier and confidence score. Implements parser.Observer.
func (s *Service) ObserveExtraction(ctx context.Context, obs parser.Observation) (string, float64) {
	s.mu.Lock()

	perf := s.patterns[obs.PatternID]
	if perf == nil {
		formType, fieldName := model.SplitPatternID(obs.PatternID)
		perf = &model.PatternPerformance{
			PatternID:       obs.PatternID,
			FormType:        formType,
			FieldName:       fieldName,
			OriginalPattern: obs.Pattern,
			FieldType:       obs.FieldType,
			IsActive:        true,
			LastUpdated:     time.Now(),
		}
		s.patterns[obs.PatternID] = perf
	}

	// A miss carries no confidence; only real matches get scored.
	confidence := 0.0
	if obs.Success {
		confidence = scoreConfidence(perf, perf.ActivePattern(), obs.FieldType, obs.Value, obs.Context, s.contexts[obs.PatternID])
	}

	res := &model.ExtractionResult{
		Timestamp:       time.Now(),
		ExtractionID:    uuid.New().String(),
		PatternID:       obs.PatternID,
		FieldName:       obs.FieldName,
		ExtractedValue:  obs.Value,
		ContextText:     obs.Context,
		ConfidenceScore: confidence,
		ConfidenceLevel: model.LevelForScore(confidence),
		Success:         obs.Success,
	}
	s.extractions[res.ExtractionID] = res

	if obs.Success {
		perf.SuccessCount++
		s.rememberContext(obs.PatternID, obs.Context)
	} else {
		perf.FailureCount++
	}
	perf.AverageConfidence = rollingAverage(perf.AverageConfidence, confidence, perf.TotalAttempts())
	perf.LastUpdated = time.Now()

	s.mu.Unlock()

	s.persistPattern(ctx, perf)
	s.persistExtraction(ctx, res)
	return res.ExtractionID, confidence
}

// SubmitFeedback attaches a user judgement to an extraction. Incorrect
// feedback reclassifies the attempt and generates pattern suggestions.
// Feedback is terminal per extraction.
func (s *Service) SubmitFeedback(ctx context.Context, fb model.UserFeedback) ([]*model.PatternSuggestion, error) {
	s.mu.Lock()

	res, ok := s.extractions[fb.ExtractionID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: extraction %s", common.ErrNotFound, fb.ExtractionID)
	}
	if res.UserFeedback != "" {
		s.mu.Unlock()
		return nil, fmt.Errorf("extraction %s already has feedback", fb.ExtractionID)
	}
	perf := s.patterns[res.PatternID]
	if perf == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: pattern %s", common.ErrNotFound, res.PatternID)
	}

	now := time.Now()
	res.FeedbackTimestamp = &now
	res.ExpectedValue = fb.CorrectValue
	if fb.IsCorrect {
		res.UserFeedback = model.FeedbackCorrect
		if !res.Success {
			perf.FailureCount--
			perf.SuccessCount++
			res.Success = true
			s.rememberContext(res.PatternID, res.ContextText)
		}
	} else {
		res.UserFeedback = model.FeedbackIncorrect
		if res.Success {
			perf.SuccessCount--
			perf.FailureCount++
			res.Success = false
		}
	}
	perf.LastUpdated = now

	var generated []*model.PatternSuggestion
	if !fb.IsCorrect {
		for _, sug := range generateSuggestions(perf, res, fb.CorrectValue) {
			sug := sug
			s.suggestions[res.PatternID] = append(s.suggestions[res.PatternID], &sug)
			s.suggestionIndex[sug.SuggestionID] = &sug
			generated = append(generated, &sug)
		}
	}

	s.mu.Unlock()

	s.persistPattern(ctx, perf)
	s.persistExtraction(ctx, res)
	for _, sug := range generated {
		s.persistSuggestion(ctx, sug)
	}

	slog.Info("feedback recorded",
		"extraction_id", fb.ExtractionID,
		"correct", fb.IsCorrect,
		"suggestions", len(generated))
	return generated, nil
}

// Suggestions lists the stored suggestions for one pattern, newest
// first.
func (s *Service) Suggestions(patternID string) []*model.PatternSuggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.PatternSuggestion, len(s.suggestions[patternID]))
	copy(out, s.suggestions[patternID])
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// AdoptSuggestion promotes a suggestion to the active pattern for its
// field. The catalog override takes effect for subsequent parses.
func (s *Service) AdoptSuggestion(ctx context.Context, suggestionID string) error {
	s.mu.Lock()

	sug, ok := s.suggestionIndex[suggestionID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: suggestion %s", common.ErrNotFound, suggestionID)
	}
	if sug.IsImplemented {
		s.mu.Unlock()
		return fmt.Errorf("suggestion %s already adopted", suggestionID)
	}
	if _, err := regexp.Compile(sug.SuggestedRegex); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("suggested pattern does not compile: %w", err)
	}
	perf := s.patterns[sug.PatternID]
	if perf == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: pattern %s", common.ErrNotFound, sug.PatternID)
	}

	formType, fieldName := model.SplitPatternID(sug.PatternID)
	if err := s.catalog.Override(formType, fieldName, sug.SuggestedRegex); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to apply pattern override: %w", err)
	}

	sug.IsImplemented = true
	perf.EnhancedPattern = sug.SuggestedRegex
	perf.LastUpdated = time.Now()

	s.mu.Unlock()

	s.persistPattern(ctx, perf)
	s.persistSuggestion(ctx, sug)

	slog.Info("pattern suggestion adopted",
		"pattern_id", sug.PatternID,
		"suggestion_id", suggestionID)
	return nil
}

// Performance returns the tracked statistics for one pattern.
func (s *Service) Performance(patternID string) (*model.PatternPerformance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patterns[patternID]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

// PatternStatistics rolls up learning state, optionally filtered to one
// form type. An empty formType covers everything.
func (s *Service) PatternStatistics(formType string) model.PatternStatistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := model.PatternStatistics{FormType: formType}
	var confidenceSum float64
	withFeedback := make(map[string]bool)

	for id, p := range s.patterns {
		if formType != "" && p.FormType != formType {
			continue
		}
		stats.TotalPatterns++
		if p.IsActive {
			stats.ActivePatterns++
		}
		stats.TotalExtractions += p.TotalAttempts()
		stats.SuccessfulExtractions += p.SuccessCount
		confidenceSum += p.AverageConfidence
		_ = id
	}
	for _, r := range s.extractions {
		ft, _ := model.SplitPatternID(r.PatternID)
		if formType != "" && ft != formType {
			continue
		}
		if r.UserFeedback != "" {
			withFeedback[r.PatternID] = true
		}
	}
	for id, sugs := range s.suggestions {
		ft, _ := model.SplitPatternID(id)
		if formType != "" && ft != formType {
			continue
		}
		stats.SuggestionsGenerated += len(sugs)
		for _, sug := range sugs {
			if sug.IsImplemented {
				stats.SuggestionsImplemented++
			}
		}
	}

	stats.PatternsWithFeedback = len(withFeedback)
	if stats.TotalExtractions > 0 {
		stats.OverallSuccessRate = float64(stats.SuccessfulExtractions) / float64(stats.TotalExtractions)
	}
	if stats.TotalPatterns > 0 {
		stats.AverageConfidence = confidenceSum / float64(stats.TotalPatterns)
	}
	return stats
}

func (s *Service) rememberContext(patternID, context string) {
	if context == "" {
		return
	}
	hist := append(s.contexts[patternID], context)
	if len(hist) > maxContextHistory {
		hist = hist[len(hist)-maxContextHistory:]
	}
	s.contexts[patternID] = hist
}

func (s *Service) persistPattern(ctx context.Context, perf *model.PatternPerformance) {
	if s.store == nil {
		return
	}
	if err := s.store.SavePatternPerformance(ctx, perf); err != nil {
		slog.Warn("failed to persist pattern performance",
			"pattern_id", perf.PatternID, "error", err)
	}
}

func (s *Service) persistExtraction(ctx context.Context, res *model.ExtractionResult) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveExtractionResult(ctx, res); err != nil {
		slog.Warn("failed to persist extraction result",
			"extraction_id", res.ExtractionID, "error", err)
	}
}

func (s *Service) persistSuggestion(ctx context.Context, sug *model.PatternSuggestion) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveSuggestion(ctx, sug); err != nil {
		slog.Warn("failed to persist suggestion",
			"suggestion_id", sug.SuggestionID, "error", err)
	}
}

// rollingAverage folds one new sample into a running mean of n samples
// total, the new sample included.
func rollingAverage(current, sample float64, n int) float64 {
	if n <= 1 {
		return sample
	}
	return current + (sample-current)/float64(n)
}
