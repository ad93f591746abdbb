package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/taxresolve/transcript-engine/internal/model"
)

// RenderSummary renders the multi-year aggregation as styled text.
func RenderSummary(summary *model.Summary) string {
	var b strings.Builder

	b.WriteString(FormatTitle("Income Summary"))
	b.WriteString("\n")

	for _, year := range summary.YearsAnalyzed {
		ys := summary.Years[year]
		if ys == nil {
			continue
		}
		var lines []string
		lines = append(lines,
			fmt.Sprintf("Forms:               %d", ys.FormCount),
			fmt.Sprintf("SE income:           %s", Money(ys.SEIncome)),
			fmt.Sprintf("Non-SE income:       %s", Money(ys.NonSEIncome)),
			fmt.Sprintf("Other income:        %s", Money(ys.OtherIncome)),
			fmt.Sprintf("Total income:        %s", Money(ys.TotalIncome)),
			fmt.Sprintf("Total withholding:   %s", Money(ys.TotalWithholding)),
			fmt.Sprintf("Estimated AGI:       %s", Money(ys.EstimatedAGI)),
		)
		if len(ys.ByOwner) > 0 {
			lines = append(lines, "", "By owner:")
			for _, owner := range sortedOwners(ys.ByOwner) {
				totals := ys.ByOwner[owner]
				lines = append(lines, fmt.Sprintf("  %-9s %s income, %s withheld (%d forms)",
					ownerLabel(owner), Money(totals.Income), Money(totals.Withholding), totals.FormCount))
			}
		}
		b.WriteString(RenderBox("Tax Year "+year, strings.Join(lines, "\n")))
		b.WriteString("\n")
	}

	overall := []string{
		fmt.Sprintf("Forms parsed:        %d", summary.TotalForms),
		fmt.Sprintf("Total SE income:     %s", Money(summary.Overall.TotalSEIncome)),
		fmt.Sprintf("Total non-SE income: %s", Money(summary.Overall.TotalNonSEIncome)),
		fmt.Sprintf("Total other income:  %s", Money(summary.Overall.TotalOtherIncome)),
		fmt.Sprintf("Total income:        %s", Money(summary.Overall.TotalIncome)),
		fmt.Sprintf("Total withholding:   %s", Money(summary.Overall.TotalWithholding)),
		fmt.Sprintf("Estimated AGI:       %s", Money(summary.Overall.EstimatedAGI)),
	}
	b.WriteString(RenderBox(ChartIcon+" Overall", strings.Join(overall, "\n")))
	b.WriteString("\n")

	return b.String()
}

// RenderForm renders one parsed form with its fields and confidence.
func RenderForm(form *model.ParsedForm) string {
	var lines []string
	lines = append(lines,
		fmt.Sprintf("Entity:      %s", form.EntityName),
		fmt.Sprintf("Identifier:  %s", form.UniqueID),
		fmt.Sprintf("Tax year:    %s", form.TaxYear),
		fmt.Sprintf("Owner:       %s", ownerLabel(form.Owner)),
		fmt.Sprintf("Income:      %s", Money(form.Income)),
		fmt.Sprintf("Withholding: %s", Money(form.Withholding)),
	)
	if len(form.Extracted) > 0 {
		lines = append(lines, "", "Fields:")
		for _, f := range form.Extracted {
			lines = append(lines, fmt.Sprintf("  %-28s %-14s %s",
				f.Name, f.RawValue, ConfidenceBadge(f.Confidence)))
		}
	}
	return RenderBox(form.FormType, strings.Join(lines, "\n"))
}

// RenderAccount renders an account transcript record with its ledger.
func RenderAccount(rec *model.AccountTranscriptRecord) string {
	lines := []string{
		fmt.Sprintf("Tax year:        %s", rec.TaxYear),
		fmt.Sprintf("Filing status:   %s", rec.FilingStatus),
		fmt.Sprintf("Processing date: %s", rec.ProcessingDate),
		fmt.Sprintf("Account balance: %s", Money(rec.AccountBalance)),
		fmt.Sprintf("Interest:        %s", Money(rec.AccruedInterest)),
		fmt.Sprintf("Penalty:         %s", Money(rec.AccruedPenalty)),
		fmt.Sprintf("Total balance:   %s", Money(rec.TotalBalance)),
		fmt.Sprintf("AGI:             %s", Money(rec.AdjustedGrossIncome)),
		fmt.Sprintf("Taxable income:  %s", Money(rec.TaxableIncome)),
		fmt.Sprintf("Tax per return:  %s", Money(rec.TaxPerReturn)),
	}
	if len(rec.Transactions) > 0 {
		lines = append(lines, "", "Transactions:")
		for _, txn := range rec.Transactions {
			lines = append(lines, fmt.Sprintf("  %-4s %-42s %-11s %s",
				txn.Code, txn.Meaning, txn.Date, Money(txn.Amount)))
		}
	}
	return RenderBox("Account Transcript", strings.Join(lines, "\n"))
}

// RenderStatistics renders a learning statistics rollup.
func RenderStatistics(stats model.PatternStatistics) string {
	title := "Pattern Statistics"
	if stats.FormType != "" {
		title += " for " + stats.FormType
	}
	lines := []string{
		fmt.Sprintf("Patterns tracked:        %d (%d active)", stats.TotalPatterns, stats.ActivePatterns),
		fmt.Sprintf("Extractions recorded:    %d", stats.TotalExtractions),
		fmt.Sprintf("Successful extractions:  %d", stats.SuccessfulExtractions),
		fmt.Sprintf("Overall success rate:    %.1f%%", stats.OverallSuccessRate*100),
		fmt.Sprintf("Average confidence:      %.2f", stats.AverageConfidence),
		fmt.Sprintf("Patterns with feedback:  %d", stats.PatternsWithFeedback),
		fmt.Sprintf("Suggestions generated:   %d (%d adopted)", stats.SuggestionsGenerated, stats.SuggestionsImplemented),
	}
	return RenderBox(title, strings.Join(lines, "\n"))
}

// RenderSuggestion renders one pattern suggestion for review.
func RenderSuggestion(sug *model.PatternSuggestion) string {
	status := SubtleStyle.Render("pending")
	if sug.IsImplemented {
		status = SuccessStyle.Render("adopted")
	}
	lines := []string{
		fmt.Sprintf("ID:         %s", sug.SuggestionID),
		fmt.Sprintf("Pattern:    %s", sug.SuggestedRegex),
		fmt.Sprintf("Reasoning:  %s", sug.Reasoning),
		fmt.Sprintf("Confidence: %.2f", sug.Confidence),
		fmt.Sprintf("Status:     %s", status),
	}
	for _, tc := range sug.TestCases {
		lines = append(lines, SubtleStyle.Render("  case: "+tc))
	}
	return RenderBox(sug.PatternID, strings.Join(lines, "\n"))
}

// ConfidenceBadge styles a confidence score by its band.
func ConfidenceBadge(score float64) string {
	text := fmt.Sprintf("%.2f %s", score, model.LevelForScore(score))
	switch model.LevelForScore(score) {
	case model.ConfidenceHigh:
		return SuccessStyle.Render(text)
	case model.ConfidenceMedium:
		return InfoStyle.Render(text)
	case model.ConfidenceLow:
		return WarningStyle.Render(text)
	default:
		return ErrorStyle.Render(text)
	}
}

// Money formats a dollar amount with thousands separators.
func Money(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)
	return sign + "$" + strings.Join(groups, ",") + frac
}

func ownerLabel(owner model.Owner) string {
	switch owner {
	case model.OwnerTaxpayer:
		return "Taxpayer"
	case model.OwnerSpouse:
		return "Spouse"
	default:
		return "Joint"
	}
}

func sortedOwners(m map[model.Owner]model.OwnerTotals) []model.Owner {
	owners := make([]model.Owner, 0, len(m))
	for o := range m {
		owners = append(owners, o)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i] < owners[j] })
	return owners
}
