package learning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taxresolve/transcript-engine/internal/model"
)

func TestScoreConfidenceWithoutHistory(t *testing.T) {
	// No performance record and no contexts means neutral history and
	// neutral similarity.
	pattern := `Wages[:\s]*\$?([\d,.]+)`
	score := scoreConfidence(nil, pattern, model.FieldTypeIncome, "50,000.00", "", nil)
	want := 0.4*0.5 + 0.2*(1.0-float64(len(pattern))/100.0) + 0.2*0.9 + 0.2*0.5
	assert.InDelta(t, want, score, 0.0001)
}

func TestScoreConfidenceTracksPatternComplexity(t *testing.T) {
	// The complexity factor is driven by the regex, not the extracted
	// value. Same pattern means same score regardless of value length,
	// and a longer regex scores lower.
	short := scoreConfidence(nil, `(\d+)`, model.FieldTypeAmount, "5.00", "", nil)
	long := scoreConfidence(nil, `(\d+)`, model.FieldTypeAmount, "123,456,789.00", "", nil)
	assert.InDelta(t, short, long, 0.0001)

	verbose := scoreConfidence(nil, `Wages[\s,]*tips[\s,]*and[\s,]*other[\s,]*compensation[:\s]*\$?([\d,.]+)`, model.FieldTypeAmount, "5.00", "", nil)
	assert.Less(t, verbose, short)
}

func TestScoreConfidenceStaysInRange(t *testing.T) {
	perfs := []*model.PatternPerformance{
		nil,
		{SuccessCount: 50},
		{FailureCount: 50},
		{SuccessCount: 1, FailureCount: 1, AverageConfidence: 0.5},
	}
	values := []string{"", "1,234.56", "not a number", string(make([]byte, 500))}

	for _, perf := range perfs {
		for _, v := range values {
			score := scoreConfidence(perf, `Amount[:\s]*\$?([\d,.]+)`, model.FieldTypeAmount, v, "some context", []string{"other context"})
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	}
}

func TestScoreConfidenceRewardsHistory(t *testing.T) {
	good := &model.PatternPerformance{SuccessCount: 20}
	bad := &model.PatternPerformance{FailureCount: 20}

	high := scoreConfidence(good, `Wages[:\s]*\$?([\d,.]+)`, model.FieldTypeIncome, "500.00", "Wages: 500.00", nil)
	low := scoreConfidence(bad, `Wages[:\s]*\$?([\d,.]+)`, model.FieldTypeIncome, "500.00", "Wages: 500.00", nil)
	assert.Greater(t, high, low)
}

func TestValidateValue(t *testing.T) {
	tests := []struct {
		name      string
		fieldType model.FieldType
		value     string
		want      float64
	}{
		{"income parses", model.FieldTypeIncome, "$1,234.56", 0.9},
		{"income garbage", model.FieldTypeIncome, "abc", 0.1},
		{"withholding parses", model.FieldTypeWithholding, "0.00", 0.9},
		{"identifier ein", model.FieldTypeIdentifier, "12-3456789", 0.8},
		{"identifier masked ssn", model.FieldTypeIdentifier, "XXX-XX-1234", 0.8},
		{"identifier with digits", model.FieldTypeIdentifier, "ACCT 123456", 0.8},
		{"identifier text", model.FieldTypeIdentifier, "ACME", 0.3},
		{"date dashes", model.FieldTypeDate, "02-14-2022", 0.8},
		{"date written out", model.FieldTypeDate, "Feb. 14, 2022", 0.8},
		{"date month and year", model.FieldTypeDate, "December 2021", 0.8},
		{"date two-digit year", model.FieldTypeDate, "05/15/99", 0.8},
		{"date garbage", model.FieldTypeDate, "sometime", 0.3},
		{"text present", model.FieldTypeText, "Married Filing Jointly", 0.7},
		{"text empty", model.FieldTypeText, "", 0.1},
		{"status present", model.FieldTypeStatus, "Yes", 0.7},
		{"unrecognized type", model.FieldType("mystery"), "anything", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, validateValue(tt.fieldType, tt.value), 0.0001)
		})
	}
}

func TestContextSimilarity(t *testing.T) {
	assert.InDelta(t, 0.5, contextSimilarity("anything", nil), 0.0001)

	same := contextSimilarity(
		"Wages, tips, and other compensation: $50,000.00",
		[]string{"Wages, tips, and other compensation: $50,000.00"},
	)
	assert.InDelta(t, 1.0, same, 0.0001)

	disjoint := contextSimilarity(
		"alpha beta gamma",
		[]string{"delta epsilon zeta"},
	)
	assert.InDelta(t, 0.0, disjoint, 0.0001)

	related := contextSimilarity(
		"Wages and compensation for the year",
		[]string{"Wages reported this year", "unrelated noise entirely"},
	)
	assert.Greater(t, related, 0.0)
	assert.Less(t, related, 1.0)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.5))
	assert.Equal(t, 1.0, clamp01(1.5))
	assert.Equal(t, 0.42, clamp01(0.42))
}
