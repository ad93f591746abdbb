package catalog

import "github.com/taxresolve/transcript-engine/internal/model"

// Common capture fragments. Dollar values tolerate thousands separators
// and an optional dollar sign; indicator fields capture words only.
const (
	money = `[:\s]*\$?([\d,.]+)`
	word  = `[:\s]*([A-Za-z ]+)`
)

// defaultDefinitions is the built-in form set. Declaration order is
// load-bearing: the segmenter tries detection alternatives in this
// order and the first match wins, so more specific variants (1098-E,
// the K-1 schedules) come before anything that could swallow them.
func defaultDefinitions() []*Definition {
	return []*Definition{
		{
			Code:      "1099-MISC",
			Detection: `Form 1099-MISC`,
			Category:  model.CategorySE,
			Fields: []FieldRule{
				{"Non-Employee Compensation", `Non[- ]?Employee[- ]?Compensation` + money},
				{"Medical Payments", `Medical[- ]?Payments` + money},
				{"Fishing Income", `Fishing[- ]?Income` + money},
				{"Rents", `Rents` + money},
				{"Royalties", `Royalties` + money},
				{"Attorney Fees", `Attorney[- ]?Fees` + money},
				{"Other Income", `Other[- ]?Income` + money},
				{"Substitute for Dividends", `Substitute[- ]?Payments[- ]?for[- ]?Dividends` + money},
				{"Excess Golden Parachute", `Excess[- ]?Golden[- ]?Parachute` + money},
				{"Crop Insurance", `Crop[- ]?Insurance` + money},
				{"Foreign Tax Paid", `Foreign[- ]?Tax[- ]?Paid` + money},
				{"Section 409A Deferrals", `Section[- ]?409A[- ]?Deferrals` + money},
				{"Section 409A Income", `Section[- ]?409A[- ]?Income` + money},
				{"Direct Sales Indicator", `Direct[- ]?Sales[- ]?Indicator` + word},
				{"FATCA Filing Requirement", `FATCA[- ]?Filing[- ]?Requirement` + word},
				{"Second Notice Indicator", `Second[- ]?Notice[- ]?Indicator` + word},
				{"Federal Withholding", `Federal[\s,]*income[\s,]*tax[\s,]*withheld` + money},
				{"Tax Withheld", `Tax[- ]?Withheld` + money},
			},
			Identifiers: []IdentifierRule{
				{"FIN", `Payer's Federal Identification Number \(FIN\):\s*([\d\-]+)`},
				{"Payer", `Payer[\s,]*:?\s*([A-Z0-9 &.,\-()\n]+?)(?:\n|Recipient|$)`},
			},
			Income: NoContext(sum(
				"Non-Employee Compensation", "Medical Payments", "Fishing Income",
				"Rents", "Royalties", "Attorney Fees", "Other Income",
				"Substitute for Dividends",
			)),
			Withholding: NoContext(sum("Federal Withholding", "Tax Withheld")),
		},
		{
			Code:      "1099-NEC",
			Detection: `Form 1099-NEC`,
			Category:  model.CategorySE,
			Fields: []FieldRule{
				{"Non-Employee Compensation", `Non[- ]?Employee[- ]?Compensation` + money},
				{"Federal Withholding", `Federal[\s,]*income[\s,]*tax[\s,]*withheld` + money},
			},
			Identifiers: []IdentifierRule{
				{"FIN", `Payer's Federal Identification Number \(FIN\):\s*([\d\-]+)`},
				{"Payer", `Payer:\s*([A-Z0-9 &.,\-]+)`},
			},
			Income:      NoContext(sum("Non-Employee Compensation")),
			Withholding: NoContext(sum("Federal Withholding")),
		},
		{
			Code:      "1099-K",
			Detection: `Form 1099-K`,
			Category:  model.CategorySE,
			Fields: []FieldRule{
				{"Gross Amount", `Gross amount of payment card/third party transactions` + money},
				{"Federal Withholding", `Federal income tax withheld` + money},
			},
			Identifiers: []IdentifierRule{
				{"FIN", `Payer's Federal Identification Number \(FIN\):\s*([\d\-]+)`},
				{"Payer", `Payer:\s*([A-Z0-9 &.,\-]+)`},
			},
			Income:      NoContext(sum("Gross Amount")),
			Withholding: NoContext(sum("Federal Withholding")),
		},
		{
			Code:      "1099-PATR",
			Detection: `Form 1099-PATR`,
			Category:  model.CategorySE,
			Fields: []FieldRule{
				{"Patronage Dividends", `Patronage dividends` + money},
				{"Non-Patronage Distribution", `Non-patronage distribution` + money},
				{"Retained Allocations", `Retained allocations` + money},
				{"Redemption Amount", `Redemption amount` + money},
				{"Federal Withholding", `Tax withheld` + money},
			},
			Identifiers: []IdentifierRule{
				{"FIN", `Payer's Federal Identification Number \(FIN\):\s*([\d\-]+)`},
				{"Payer", `Payer:\s*([A-Z0-9 &.,\-]+)`},
			},
			Income: NoContext(sum(
				"Patronage Dividends", "Non-Patronage Distribution",
				"Retained Allocations", "Redemption Amount",
			)),
			Withholding: NoContext(sum("Federal Withholding")),
		},
		{
			Code:      "1042-S",
			Detection: `Form 1042-S`,
			Category:  model.CategoryNeither,
			Fields: []FieldRule{
				{"Gross Income", `Gross income` + money},
				{"Federal Withholding", `U\.S\. federal tax withheld` + money},
			},
			Income:      NoContext(sum("Gross Income")),
			Withholding: NoContext(sum("Federal Withholding")),
		},
		{
			Code:      "K-1 (Form 1065)",
			Detection: `Schedule K-1 \(Form 1065\)`,
			Category:  model.CategorySE,
			Fields: []FieldRule{
				{"Royalties", `Royalties` + money},
				{"Ordinary Income K-1", `Ordinary income` + money},
				{"Real Estate", `Real estate` + money},
				{"Other Rental", `Other rental` + money},
				{"Guaranteed Payments", `Guaranteed payments` + money},
				{"Section 179 Expenses", `Section 179 expenses` + money},
				{"Nonrecourse Beginning", `Nonrecourse beginning` + money},
				{"Qualified Nonrecourse Beginning", `Qualified nonrecourse beginning` + money},
			},
			Income: NoContext(sum(
				"Royalties", "Ordinary Income K-1", "Real Estate",
				"Other Rental", "Guaranteed Payments",
			)),
			Withholding: NoContext(zero),
		},
		{
			Code:      "K-1 (Form 1041)",
			Detection: `Schedule K-1 \(Form 1041\)`,
			Category:  model.CategoryNeither,
			Fields: []FieldRule{
				{"Net Rental Real Estate Income", `Net rental real estate income` + money},
				{"Other Rental Income", `Other rental income` + money},
			},
			Income:      NoContext(sum("Net Rental Real Estate Income", "Other Rental Income")),
			Withholding: NoContext(zero),
		},
		{
			Code:      "K-1 1120S",
			Detection: `Schedule K-1 \(Form 1120S\)`,
			Category:  model.CategoryNeither,
			Fields: []FieldRule{
				{"Dividends", `Dividends` + money},
				{"Interest", `Interest` + money},
				{"Royalties", `Royalties` + money},
				{"Ordinary Income K-1", `Ordinary income` + money},
				{"Real Estate", `Real estate` + money},
				{"Other Rental", `Other rental` + money},
			},
			Income: NoContext(sum(
				"Dividends", "Interest", "Royalties",
				"Ordinary Income K-1", "Real Estate", "Other Rental",
			)),
			Withholding: NoContext(zero),
		},
		{
			Code: "W-2",
			// Tolerates OCR artifacts in the "Wage and Tax Statement"
			// banner: stray spaces and hyphens between letters.
			Detection: `Form\s*W\s*[-–]?\s*2.*W\s*-?\s*a\s*-?\s*g\s*-?\s*e.*T\s*-?\s*a\s*-?\s*x.*S\s*-?\s*t\s*-?\s*a\s*-?\s*t\s*-?\s*e\s*-?\s*m\s*-?\s*e\s*-?\s*n\s*-?\s*t`,
			Category:  model.CategoryNonSE,
			Fields: []FieldRule{
				{"Wages, Tips, and Other Compensation", `Wages[\s,]*tips[\s,]*and[\s,]*other[\s,]*compensation` + money},
				{"Federal Withholding", `Federal[\s,]*income[\s,]*tax[\s,]*withheld` + money},
			},
			Identifiers: []IdentifierRule{
				{"EIN", `Employer Identification Number \(EIN\):\s*([\d\-]+)`},
				{"Employer", `Employer[\s,]*:?\s*([A-Z0-9 &.,\-()\n]+?)(?:\n|Recipient|$)`},
			},
			Income:      NoContext(sum("Wages, Tips, and Other Compensation")),
			Withholding: NoContext(sum("Federal Withholding")),
		},
		{
			Code:      "W-2G",
			Detection: `Form W-2G`,
			Category:  model.CategoryNonSE,
			Fields: []FieldRule{
				{"Gross Winnings", `Gross winnings` + money},
				{"Federal Withholding", `Federal income tax withheld` + money},
			},
			Income:      NoContext(sum("Gross Winnings")),
			Withholding: NoContext(sum("Federal Withholding")),
		},
		{
			Code:      "1099-R",
			Detection: `Form 1099-R`,
			Category:  model.CategoryNonSE,
			Fields: []FieldRule{
				{"Taxable Amount", `Taxable amount` + money},
				{"Gross Distribution", `Gross distribution` + money},
				{"Distribution Code 1", `Distribution code 1` + money},
				{"Distribution Code 2", `Distribution code 2` + money},
				{"Distribution Code 3", `Distribution code 3` + money},
				{"Distribution Code 4", `Distribution code 4` + money},
				{"Distribution Code 7", `Distribution code 7` + money},
				{"Distribution Code 8", `Distribution code 8` + money},
				{"Distribution Code G", `Distribution code G` + money},
				{"Distribution Code J", `Distribution code J` + money},
				{"Distribution Code L", `Distribution code L` + money},
				{"Distribution Code M", `Distribution code M` + money},
				{"Federal Withholding", `Tax withheld` + money},
			},
			Identifiers: []IdentifierRule{
				{"FIN", `Payer's Federal Identification Number \(FIN\):\s*([\d\-]+)`},
				{"Payer", `Payer[\s,]*:?\s*([A-Z0-9 &.,\-()\n]+?)(?:\n|Recipient|$)`},
			},
			Income:      NoContext(retirementDistributionIncome),
			Withholding: NoContext(sum("Federal Withholding")),
		},
		{
			Code:      "1099-B",
			Detection: `Form 1099-B`,
			Category:  model.CategoryNeither,
			Fields: []FieldRule{
				{"Proceeds", `Proceeds` + money},
				{"Cost or Basis", `Cost or basis` + money},
				{"Federal Withholding", `Federal income tax withheld` + money},
			},
			Identifiers: []IdentifierRule{
				{"FIN", `Payer's Federal Identification Number \(FIN\):\s*([\d\-]+)`},
				{"Payer", `Payer:\s*([A-Z0-9 &.,\-]+)`},
			},
			Income: NoContext(func(f model.Fields) float64 {
				return f.Amount("Proceeds") - f.Amount("Cost or Basis")
			}),
			Withholding: NoContext(sum("Federal Withholding")),
		},
		{
			Code:      "SSA-1099",
			Detection: `Form SSA-1099`,
			Category:  model.CategoryNonSE,
			Fields: []FieldRule{
				{"Total Benefits Paid", `Pensions and Annuities \(Total Benefits Paid\)[:\s]*[\r\n\s]*\$?([\d,.]+)`},
				{"Repayments", `Repayments` + money},
				{"Federal Withholding", `Tax Withheld` + money},
			},
			Income:      WithFilingContext(SSABenefitIncome),
			Withholding: NoContext(sum("Federal Withholding")),
		},
		{
			Code:      "1099-DIV",
			Detection: `Form 1099-DIV`,
			Category:  model.CategoryNeither,
			Fields: []FieldRule{
				{"Qualified Dividends", `Qualified dividends` + money},
				{"Cash Liquidation Distribution", `Cash liquidation distribution` + money},
				{"Capital Gains", `Capital gains` + money},
				{"Federal Withholding", `Tax withheld` + money},
			},
			Income: NoContext(sum(
				"Qualified Dividends", "Cash Liquidation Distribution", "Capital Gains",
			)),
			Withholding: NoContext(sum("Federal Withholding")),
		},
		{
			Code:      "1099-INT",
			Detection: `Form 1099-INT`,
			Category:  model.CategoryNeither,
			Fields: []FieldRule{
				{"Interest", `Interest` + money},
				{"Savings Bonds", `Savings bonds` + money},
				{"Federal Withholding", `Tax withheld` + money},
			},
			Identifiers: []IdentifierRule{
				{"FIN", `Payer's Federal Identification Number \(FIN\):\s*([\d\-]+)`},
				{"Payer", `Payer[\s,]*:?\s*([A-Z0-9 &.,\-()\n]+?)(?:\n|Recipient|$)`},
			},
			// Savings bond interest under $1,000 is excluded, matching
			// the resolution team's screening rule.
			Income: NoContext(func(f model.Fields) float64 {
				income := f.Amount("Interest")
				if bonds := f.Amount("Savings Bonds"); bonds >= 1000 {
					income += bonds
				}
				return income
			}),
			Withholding: NoContext(sum("Federal Withholding")),
		},
		{
			Code:      "1099-G",
			Detection: `Form 1099-G`,
			Category:  model.CategoryNeither,
			Fields: []FieldRule{
				{"Unemployment Compensation", `Unemployment compensation` + money},
				{"Agricultural Subsidies", `Agricultural subsidies` + money},
				{"Taxable Grants", `Taxable grants` + money},
				{"Prior Year Refund", `Prior year refund` + money},
				{"Federal Withholding", `Tax withheld` + money},
			},
			Income: NoContext(sum(
				"Unemployment Compensation", "Agricultural Subsidies", "Taxable Grants",
			)),
			Withholding: NoContext(sum("Federal Withholding")),
		},
		{
			// Declared before 1099-S so the anchored detection scan never
			// prefix-matches a 1099-SA header as 1099-S.
			Code:      "1099-SA",
			Detection: `Form 1099-SA`,
			Category:  model.CategoryNeither,
			Fields: []FieldRule{
				{"MSA Gross Distributions", `MSA gross distributions` + money},
			},
			Income:      NoContext(zero),
			Withholding: NoContext(zero),
		},
		{
			Code:      "1099-S",
			Detection: `Form 1099-S`,
			Category:  model.CategoryNeither,
			Fields: []FieldRule{
				{"Gross Proceeds", `Gross proceeds` + money},
			},
			Identifiers: []IdentifierRule{
				{"FIN", `Payer's Federal Identification Number \(FIN\):\s*([\d\-]+)`},
				{"Payer", `Payer[\s,]*:?\s*([A-Z0-9 &.,\-()\n]+?)(?:\n|Recipient|$)`},
			},
			Income:      NoContext(sum("Gross Proceeds")),
			Withholding: NoContext(zero),
		},
		{
			Code:      "1099-LTC",
			Detection: `Form 1099-LTC`,
			Category:  model.CategoryNeither,
			Fields: []FieldRule{
				{"Gross Benefits", `Gross benefits` + money},
				{"Gross Long-Term Care Benefits Paid", `Gross long-term care benefits paid` + money},
				{"Accelerated Death Benefits Paid", `Accelerated death benefits paid` + money},
			},
			Income:      NoContext(zero),
			Withholding: NoContext(zero),
		},
		{
			Code:      "1099-OID",
			Detection: `Form 1099-OID`,
			Category:  model.CategoryNeither,
			Fields: []FieldRule{
				{"Original Issue Discount", `Original issue discount` + money},
				{"Interest", `Interest` + money},
				{"Federal Withholding", `Tax withheld` + money},
			},
			Income:      NoContext(sum("Original Issue Discount", "Interest")),
			Withholding: NoContext(sum("Federal Withholding")),
		},
		{
			Code:      "1099-C",
			Detection: `Form 1099-C`,
			Category:  model.CategoryNeither,
			Fields: []FieldRule{
				{"Amount of Debt Discharged", `Amount of debt discharged` + money},
				{"Property Fair Market Value", `Property fair market value` + money},
			},
			// Only the discharge itself is potentially taxable.
			Income:      NoContext(sum("Amount of Debt Discharged")),
			Withholding: NoContext(zero),
		},
		{
			Code:      "1099-Q",
			Detection: `Form 1099-Q`,
			Category:  model.CategoryNeither,
			Fields: []FieldRule{
				{"Gross Distributions", `Gross Distribution[s]?` + money},
			},
			Identifiers: []IdentifierRule{
				{"FIN", `Payer's Federal Identification Number \(FIN\):\s*([\d\-]+)`},
				{"Payer", `Payer[\s,]*:?\s*([A-Z0-9 &.,\-()\n]+?)(?:\n|Recipient|$)`},
			},
			Income:      NoContext(zero),
			Withholding: NoContext(zero),
		},
		{
			Code:      "3922",
			Detection: `Form 3922`,
			Category:  model.CategoryNeither,
			Fields: []FieldRule{
				{"Exercise Fair Market Value", `Exercise fair market value per share` + money},
				{"Exercise Price Per Share (EPS)", `Exercise price per share` + money},
				{"Number of Shares Transferred", `Number of shares transferred` + money},
			},
			// ISO exercises are not income until sale.
			Income:      NoContext(zero),
			Withholding: NoContext(zero),
		},
		{
			Code:      "5498-SA",
			Detection: `Form 5498-SA`,
			Category:  model.CategoryNeither,
			Income:    NoContext(zero),
		},
		{
			Code:      "5498",
			Detection: `Form 5498`,
			Category:  model.CategoryNeither,
			Fields: []FieldRule{
				{"Fair Market Value of Account", `Fair market value of account` + money},
			},
			Income:      NoContext(zero),
			Withholding: NoContext(zero),
		},
		{
			Code:      "1098-E",
			Detection: `Form 1098-E`,
			Category:  model.CategoryNeither,
			Fields: []FieldRule{
				{"Received by Lender", `Received by Lender` + money},
			},
			Income:      NoContext(zero),
			Withholding: NoContext(zero),
		},
		{
			Code:      "1098-T",
			Detection: `Form 1098-T`,
			Category:  model.CategoryNeither,
			Fields: []FieldRule{
				{"Qualified Tuition and Related Expenses", `Qualified tuition and related expenses` + money},
			},
			Income:      NoContext(zero),
			Withholding: NoContext(zero),
		},
		{
			Code: "1098",
			// Plain 1098 is declared after 1098-E and 1098-T so the
			// specific variants win the declaration-order tie-break.
			Detection: `Form 1098`,
			Category:  model.CategoryNeither,
			Fields: []FieldRule{
				{"Outstanding Mortgage Principal", `Outstanding Mortgage Principle` + money},
				{"Mortgage Interest Received", `Mortgage Interest Received from Payer\(s\)/Borrower\(s\)` + money},
			},
			Income:      NoContext(zero),
			Withholding: NoContext(zero),
		},
	}
}

// retirementDistributionIncome implements the 1099-R rule: taxable
// amount when reported, otherwise the gross distribution when any
// taxable distribution code (1-8) is present, otherwise 0.
func retirementDistributionIncome(f model.Fields) float64 {
	if f.Has("Taxable Amount") {
		return f.Amount("Taxable Amount")
	}
	for _, code := range []string{"1", "2", "3", "4", "7", "8"} {
		if f.Has("Distribution Code " + code) {
			return f.Amount("Gross Distribution")
		}
	}
	return 0
}
