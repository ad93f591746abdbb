package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxresolve/transcript-engine/internal/model"
)

func TestSSABenefitIncome(t *testing.T) {
	benefits := model.Fields{
		"Total Benefits Paid": {Number: 10000},
	}

	tests := []struct {
		name   string
		status model.FilingStatus
		income float64
		want   float64
	}{
		{"single at threshold", model.FilingSingle, 25000, 0},
		{"single just above threshold", model.FilingSingle, 25001, 8500},
		{"head of household at threshold", model.FilingHeadOfHousehold, 25000, 0},
		{"married joint at threshold", model.FilingMarriedJoint, 34000, 0},
		{"married joint above threshold", model.FilingMarriedJoint, 34001, 8500},
		{"married separate above threshold", model.FilingMarriedSeparate, 34001, 8500},
		{"unreported combined income taxes benefits", model.FilingSingle, 0, 8500},
		{"unknown status uses single threshold", model.FilingStatus(""), 30000, 8500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := model.FilingContext{FilingStatus: tt.status, CombinedIncome: tt.income}
			assert.InDelta(t, tt.want, SSABenefitIncome(benefits, fc), 0.001)
		})
	}
}

func TestCalcRuleEval(t *testing.T) {
	t.Run("context rule without context errors and yields zero", func(t *testing.T) {
		rule := WithFilingContext(SSABenefitIncome)
		v, err := rule.Eval(model.Fields{"Total Benefits Paid": {Number: 100}}, nil)
		require.Error(t, err)
		assert.Zero(t, v)
	})

	t.Run("panicking rule degrades to zero with error", func(t *testing.T) {
		rule := NoContext(func(model.Fields) float64 {
			panic("boom")
		})
		v, err := rule.Eval(model.Fields{}, nil)
		require.Error(t, err)
		assert.Zero(t, v)
	})

	t.Run("empty rule evaluates to zero without error", func(t *testing.T) {
		var rule CalcRule
		require.True(t, rule.IsZero())
		v, err := rule.Eval(model.Fields{}, nil)
		require.NoError(t, err)
		assert.Zero(t, v)
	})

	t.Run("context rule reports NeedsContext", func(t *testing.T) {
		assert.True(t, WithFilingContext(SSABenefitIncome).NeedsContext())
		assert.False(t, NoContext(zero).NeedsContext())
	})
}

func TestRetirementDistributionIncome(t *testing.T) {
	tests := []struct {
		fields model.Fields
		name   string
		want   float64
	}{
		{
			name:   "taxable amount wins",
			fields: model.Fields{"Taxable Amount": {Number: 4000}, "Gross Distribution": {Number: 9000}},
			want:   4000,
		},
		{
			name:   "gross distribution with early distribution code",
			fields: model.Fields{"Gross Distribution": {Number: 9000}, "Distribution Code 1": {Number: 9000}},
			want:   9000,
		},
		{
			name:   "rollover code does not count",
			fields: model.Fields{"Gross Distribution": {Number: 9000}, "Distribution Code G": {Number: 9000}},
			want:   0,
		},
		{
			name:   "no fields",
			fields: model.Fields{},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, retirementDistributionIncome(tt.fields), 0.001)
		})
	}
}

func TestSum(t *testing.T) {
	fields := model.Fields{
		"Rents":     {Number: 1200},
		"Royalties": {Number: 800},
		"Indicator": {Text: "Yes", IsText: true},
	}

	total := sum("Rents", "Royalties", "Missing", "Indicator")(fields)
	assert.InDelta(t, 2000.0, total, 0.001)
}
