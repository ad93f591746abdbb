package learning

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/taxresolve/transcript-engine/internal/model"
)

// Blend weights for the confidence score. History carries the most
// signal; the rest split evenly.
const (
	historyWeight    = 0.4
	lengthWeight     = 0.2
	validationWeight = 0.2
	contextWeight    = 0.2
)

// A date-like value carries a 4-digit year or a numeric date token.
var dateToken = regexp.MustCompile(`\b(?:19|20)\d{2}\b|\d{1,2}[-/]\d{1,2}[-/]\d{2,4}`)

// scoreConfidence blends pattern history, pattern complexity, value
// shape validation, and context similarity into a [0, 1] confidence
// score. Longer regexes count as more complex and score lower.
func scoreConfidence(perf *model.PatternPerformance, pattern string, fieldType model.FieldType, value, context string, successContexts []string) float64 {
	history := 0.5
	if perf != nil && perf.TotalAttempts() > 0 {
		history = perf.SuccessRate()
	}

	length := 1.0 - float64(len(pattern))/100.0
	if length < 0.1 {
		length = 0.1
	}

	score := historyWeight*history +
		lengthWeight*length +
		validationWeight*validateValue(fieldType, value) +
		contextWeight*contextSimilarity(context, successContexts)

	return clamp01(score)
}

// validateValue checks whether the extracted text is shaped like the
// kind of value the field expects.
func validateValue(fieldType model.FieldType, value string) float64 {
	value = strings.TrimSpace(value)
	switch fieldType {
	case model.FieldTypeIncome, model.FieldTypeWithholding, model.FieldTypeAmount:
		cleaned := strings.NewReplacer("$", "", ",", "").Replace(value)
		if _, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return 0.9
		}
		return 0.1
	case model.FieldTypeIdentifier:
		if strings.ContainsAny(value, "0123456789") {
			return 0.8
		}
		return 0.3
	case model.FieldTypeDate:
		if dateToken.MatchString(value) {
			return 0.8
		}
		return 0.3
	case model.FieldTypeText, model.FieldTypeStatus:
		if value != "" {
			return 0.7
		}
		return 0.1
	default:
		return 0.5
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
