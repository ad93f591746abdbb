package model

// Transaction is one ledger row from an account transcript.
type Transaction struct {
	Code      string  `json:"code"`
	Meaning   string  `json:"meaning"`
	CycleDate string  `json:"cycle_date"`
	Date      string  `json:"date"`
	Amount    float64 `json:"amount"`
}

// AccountTranscriptRecord holds the balances, return figures, and
// transaction ledger parsed from one account transcript.
type AccountTranscriptRecord struct {
	TaxYear             string        `json:"tax_year"`
	FilingStatus        string        `json:"filing_status"`
	ProcessingDate      string        `json:"processing_date"`
	SourceFile          string        `json:"source_file,omitempty"`
	Owner               Owner         `json:"owner"`
	Transactions        []Transaction `json:"transactions"`
	AccountBalance      float64       `json:"account_balance"`
	AccruedInterest     float64       `json:"accrued_interest"`
	AccruedPenalty      float64       `json:"accrued_penalty"`
	TotalBalance        float64       `json:"total_balance"`
	AdjustedGrossIncome float64       `json:"adjusted_gross_income"`
	TaxableIncome       float64       `json:"taxable_income"`
	TaxPerReturn        float64       `json:"tax_per_return"`
	SETaxTaxpayer       float64       `json:"se_tax_taxpayer"`
	SETaxSpouse         float64       `json:"se_tax_spouse"`
	TotalSETax          float64       `json:"total_se_tax"`
}
