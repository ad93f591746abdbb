package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxresolve/transcript-engine/internal/model"
)

func TestAggregate(t *testing.T) {
	forms := []model.ParsedForm{
		{FormType: "1099-NEC", Category: model.CategorySE, TaxYear: "2021", Owner: model.OwnerTaxpayer, Income: 10000, Withholding: 500},
		{FormType: "W-2", Category: model.CategoryNonSE, TaxYear: "2021", Owner: model.OwnerSpouse, Income: 50000, Withholding: 5000},
		{FormType: "1099-B", Category: model.CategoryNeither, TaxYear: "2021", Owner: model.OwnerTaxpayer, Income: 300, Withholding: 0},
		{FormType: "W-2", Category: model.CategoryNonSE, TaxYear: "2020", Owner: model.OwnerTaxpayer, Income: 45000, Withholding: 4200},
	}

	summary := Aggregate(forms)

	assert.Equal(t, 4, summary.TotalForms)
	assert.Equal(t, []string{"2021", "2020"}, summary.YearsAnalyzed)

	y21 := summary.Years["2021"]
	require.NotNil(t, y21)
	assert.Equal(t, 3, y21.FormCount)
	assert.InDelta(t, 10000.0, y21.SEIncome, 0.001)
	assert.InDelta(t, 50000.0, y21.NonSEIncome, 0.001)
	// Neither-category forms land in the Other bucket.
	assert.InDelta(t, 300.0, y21.OtherIncome, 0.001)
	assert.InDelta(t, 60300.0, y21.TotalIncome, 0.001)
	assert.InDelta(t, 5500.0, y21.TotalWithholding, 0.001)
	assert.InDelta(t, 60300.0-10000.0*model.SETaxAdjustmentRate, y21.EstimatedAGI, 0.01)

	tp := y21.ByOwner[model.OwnerTaxpayer]
	assert.Equal(t, 2, tp.FormCount)
	assert.InDelta(t, 10300.0, tp.Income, 0.001)
	sp := y21.ByOwner[model.OwnerSpouse]
	assert.Equal(t, 1, sp.FormCount)
	assert.InDelta(t, 50000.0, sp.Income, 0.001)

	// Overall totals must equal the sums across years.
	var income, withholding float64
	for _, y := range summary.Years {
		income += y.TotalIncome
		withholding += y.TotalWithholding
	}
	assert.InDelta(t, income, summary.Overall.TotalIncome, 0.001)
	assert.InDelta(t, withholding, summary.Overall.TotalWithholding, 0.001)
	assert.InDelta(t, income-10000.0*model.SETaxAdjustmentRate, summary.Overall.EstimatedAGI, 0.01)
}

func TestAggregateEmpty(t *testing.T) {
	summary := Aggregate(nil)
	assert.Zero(t, summary.TotalForms)
	assert.Empty(t, summary.Years)
	assert.Empty(t, summary.YearsAnalyzed)
	assert.Zero(t, summary.Overall.EstimatedAGI)
}
