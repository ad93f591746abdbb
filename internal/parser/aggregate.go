package parser

import (
	"math"
	"sort"

	"github.com/taxresolve/transcript-engine/internal/model"
)

// Aggregate rolls parsed forms into per-year summaries plus overall
// totals. Per-year estimated AGI subtracts that year's SE tax
// adjustment; the overall figure applies the adjustment once across
// all years, so the two are consistent by construction.
func Aggregate(forms []model.ParsedForm) *model.Summary {
	summary := &model.Summary{
		Years:      make(map[string]*model.YearSummary),
		TotalForms: len(forms),
	}

	for _, form := range forms {
		year := summary.Years[form.TaxYear]
		if year == nil {
			year = &model.YearSummary{
				TaxYear: form.TaxYear,
				ByOwner: make(map[model.Owner]model.OwnerTotals),
			}
			summary.Years[form.TaxYear] = year
		}
		year.FormCount++

		switch form.Category.Bucket() {
		case model.CategorySE:
			year.SEIncome += form.Income
			year.SEWithholding += form.Withholding
		case model.CategoryNonSE:
			year.NonSEIncome += form.Income
			year.NonSEWithholding += form.Withholding
		default:
			year.OtherIncome += form.Income
			year.OtherWithholding += form.Withholding
		}

		owner := year.ByOwner[form.Owner]
		owner.Income += form.Income
		owner.Withholding += form.Withholding
		owner.FormCount++
		year.ByOwner[form.Owner] = owner
	}

	for _, year := range summary.Years {
		year.TotalIncome = year.SEIncome + year.NonSEIncome + year.OtherIncome
		year.TotalWithholding = year.SEWithholding + year.NonSEWithholding + year.OtherWithholding
		year.EstimatedAGI = round2(year.TotalIncome - year.SEIncome*model.SETaxAdjustmentRate)

		summary.Overall.TotalSEIncome += year.SEIncome
		summary.Overall.TotalNonSEIncome += year.NonSEIncome
		summary.Overall.TotalOtherIncome += year.OtherIncome
		summary.Overall.TotalIncome += year.TotalIncome
		summary.Overall.TotalWithholding += year.TotalWithholding

		summary.YearsAnalyzed = append(summary.YearsAnalyzed, year.TaxYear)
	}
	summary.Overall.EstimatedAGI = round2(
		summary.Overall.TotalIncome - summary.Overall.TotalSEIncome*model.SETaxAdjustmentRate)

	// Most recent year first, matching how analysts read these.
	sort.Sort(sort.Reverse(sort.StringSlice(summary.YearsAnalyzed)))

	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
