// Package account parses IRS account transcripts: balance and return
// figures plus the transaction ledger.
package account

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/taxresolve/transcript-engine/internal/common"
	"github.com/taxresolve/transcript-engine/internal/model"
	"github.com/taxresolve/transcript-engine/internal/parser"
)

var (
	reportPeriodYear = regexp.MustCompile(`Report for Tax Period Ending:\s*\d{2}-\d{2}-(\d{4})`)
	decPeriodYear    = regexp.MustCompile(`(?i)TAX PERIOD:\s*Dec\.\s*31,\s*(\d{4})`)
	anyPeriodYear    = regexp.MustCompile(`(?i)TAX PERIOD:\s*[A-Za-z]+\.?\s*\d{1,2},?\s*(\d{4})`)
	anyYear          = regexp.MustCompile(`(\d{4})`)
)

// amountPatterns capture the balance and return figures. Labels appear
// in both transcript casings.
var amountPatterns = []struct {
	name    string
	pattern *regexp.Regexp
	assign  func(*model.AccountTranscriptRecord, float64)
}{
	{"account_balance", amountRe(`ACCOUNT BALANCE`), func(r *model.AccountTranscriptRecord, v float64) { r.AccountBalance = v }},
	{"accrued_interest", amountRe(`ACCRUED INTEREST`), func(r *model.AccountTranscriptRecord, v float64) { r.AccruedInterest = v }},
	{"accrued_penalty", amountRe(`ACCRUED PENALTY`), func(r *model.AccountTranscriptRecord, v float64) { r.AccruedPenalty = v }},
	{"adjusted_gross_income", amountRe(`ADJUSTED GROSS INCOME`), func(r *model.AccountTranscriptRecord, v float64) { r.AdjustedGrossIncome = v }},
	{"taxable_income", amountRe(`TAXABLE INCOME`), func(r *model.AccountTranscriptRecord, v float64) { r.TaxableIncome = v }},
	{"tax_per_return", amountRe(`TAX PER RETURN`), func(r *model.AccountTranscriptRecord, v float64) { r.TaxPerReturn = v }},
	{"se_tax_taxpayer", amountRe(`SE TAXABLE INCOME TAXPAYER`), func(r *model.AccountTranscriptRecord, v float64) { r.SETaxTaxpayer = v }},
	{"se_tax_spouse", amountRe(`SE TAXABLE INCOME SPOUSE`), func(r *model.AccountTranscriptRecord, v float64) { r.SETaxSpouse = v }},
	{"total_se_tax", amountRe(`TOTAL SELF EMPLOYMENT TAX`), func(r *model.AccountTranscriptRecord, v float64) { r.TotalSETax = v }},
}

func amountRe(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + label + `[:\s]*\$?([\d,.\-]+)`)
}

var filingStatusPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)FILING STATUS[:\s]*([^,\n]+)`),
	regexp.MustCompile(`([A-Za-z ]+(?:Filing|Joint|Single|Married|Head|Widow))`),
}

var processingDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)PROCESSING DATE[:\s]*([A-Za-z]+\.?\s+\d{1,2},?\s*\d{4})`),
	regexp.MustCompile(`(?i)PROCESSING[^:]*:\s*([A-Za-z]+\.?\s+\d{1,2},?\s*\d{4})`),
	regexp.MustCompile(`(?i)DATE[^:]*:\s*([A-Za-z]+\.?\s+\d{1,2},?\s*\d{4})`),
	regexp.MustCompile(`([A-Za-z]+\.?\s+\d{1,2},?\s*\d{4})`),
}

// Parse extracts an account transcript record from raw text. Missing
// fields degrade to zero values; the only hard error is empty input.
func Parse(text string) (*model.AccountTranscriptRecord, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: account transcript", common.ErrEmptyDocument)
	}

	rec := &model.AccountTranscriptRecord{
		TaxYear: taxYear(text),
	}

	for _, ap := range amountPatterns {
		m := ap.pattern.FindStringSubmatch(text)
		if m == nil {
			slog.Debug("account transcript field not found", "field", ap.name)
			continue
		}
		v, err := parseAmount(m[1])
		if err != nil {
			slog.Warn("could not parse account transcript amount",
				"field", ap.name, "raw", m[1])
			continue
		}
		ap.assign(rec, v)
	}

	// Total balance is always derived, never read from the document.
	rec.TotalBalance = rec.AccountBalance + rec.AccruedInterest + rec.AccruedPenalty

	rec.FilingStatus = filingStatus(text)
	rec.ProcessingDate = processingDate(text)
	rec.Transactions = parseTransactions(text)

	return rec, nil
}

// ParseFile parses a transcript and stamps source metadata inferred
// from the file name.
func ParseFile(text, fileName string) (*model.AccountTranscriptRecord, error) {
	rec, err := Parse(text)
	if err != nil {
		return nil, err
	}
	rec.SourceFile = fileName
	rec.Owner = parser.OwnerFromFileName(fileName)
	return rec, nil
}

// Parser adapts the package functions to the account parsing service
// interface.
type Parser struct{}

// NewParser returns an account transcript parser.
func NewParser() *Parser { return &Parser{} }

// ParseFile implements service.AccountParser.
func (*Parser) ParseFile(text, fileName string) (*model.AccountTranscriptRecord, error) {
	return ParseFile(text, fileName)
}

func taxYear(text string) string {
	for _, re := range []*regexp.Regexp{reportPeriodYear, decPeriodYear, anyPeriodYear, anyYear} {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return m[1]
		}
	}
	return "Unknown"
}

func filingStatus(text string) string {
	for _, re := range filingStatusPatterns {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			if fs := strings.TrimSpace(m[1]); fs != "" {
				return fs
			}
		}
	}
	return "Unknown"
}

var bareYear = regexp.MustCompile(`^\d{4}$`)

func processingDate(text string) string {
	for _, re := range processingDatePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		date := strings.TrimSpace(m[1])
		// A bare year is a tax period, not a processing date.
		if bareYear.MatchString(date) {
			continue
		}
		// So is a date sitting ahead of the tax period header.
		if precedesMarker(text, "TAX PERIOD", date) || precedesMarker(text, "REPORT FOR TAX PERIOD", date) {
			continue
		}
		return date
	}
	return ""
}

// precedesMarker reports whether needle occurs in the text before the
// first occurrence of marker.
func precedesMarker(text, marker, needle string) bool {
	idx := strings.Index(text, marker)
	return idx >= 0 && strings.Contains(text[:idx], needle)
}

func parseAmount(raw string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(raw))
	return strconv.ParseFloat(cleaned, 64)
}

// isoDate converts MM-DD-YYYY to ISO form; unparsable dates come back
// unchanged rather than failing the row.
func isoDate(raw string) string {
	t, err := time.Parse("01-02-2006", raw)
	if err != nil {
		return raw
	}
	return t.Format("2006-01-02")
}
