package model

// SETaxAdjustmentRate approximates the deductible half of self-employment
// tax when estimating AGI from gross SE income.
const SETaxAdjustmentRate = 0.0765

// YearSummary aggregates the parsed forms for one tax year.
type YearSummary struct {
	ByOwner          map[Owner]OwnerTotals `json:"by_owner,omitempty"`
	TaxYear          string                `json:"tax_year"`
	FormCount        int                   `json:"form_count"`
	SEIncome         float64               `json:"se_income"`
	SEWithholding    float64               `json:"se_withholding"`
	NonSEIncome      float64               `json:"non_se_income"`
	NonSEWithholding float64               `json:"non_se_withholding"`
	OtherIncome      float64               `json:"other_income"`
	OtherWithholding float64               `json:"other_withholding"`
	TotalIncome      float64               `json:"total_income"`
	TotalWithholding float64               `json:"total_withholding"`
	EstimatedAGI     float64               `json:"estimated_agi"`
}

// OwnerTotals breaks a year's income down by document owner.
type OwnerTotals struct {
	Income      float64 `json:"income"`
	Withholding float64 `json:"withholding"`
	FormCount   int     `json:"form_count"`
}

// OverallTotals aggregates across all years.
type OverallTotals struct {
	TotalSEIncome    float64 `json:"total_se_income"`
	TotalNonSEIncome float64 `json:"total_non_se_income"`
	TotalOtherIncome float64 `json:"total_other_income"`
	TotalIncome      float64 `json:"total_income"`
	TotalWithholding float64 `json:"total_withholding"`
	EstimatedAGI     float64 `json:"estimated_agi"`
}

// Summary is the full aggregation result over a set of parsed forms.
type Summary struct {
	Years         map[string]*YearSummary `json:"by_year"`
	YearsAnalyzed []string                `json:"years_analyzed"`
	TotalForms    int                     `json:"total_forms"`
	Overall       OverallTotals           `json:"overall_totals"`
}
