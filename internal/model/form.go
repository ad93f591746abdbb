// Package model defines the core data structures for the transcript engine.
package model

import "strings"

// Category buckets a form type for aggregation purposes.
type Category string

// Form categories. Neither is distinct from Other in the catalog but
// aggregates into the Other bucket.
const (
	CategorySE      Category = "SE"
	CategoryNonSE   Category = "Non-SE"
	CategoryOther   Category = "Other"
	CategoryNeither Category = "Neither"
)

// Bucket maps a category onto one of the three aggregation buckets.
func (c Category) Bucket() Category {
	if c == CategoryNeither {
		return CategoryOther
	}
	return c
}

// Owner identifies whose transcript a document belongs to.
type Owner string

// Owner designations. OwnerJoint marks documents covering both filers.
const (
	OwnerTaxpayer Owner = "TP"
	OwnerSpouse   Owner = "S"
	OwnerJoint    Owner = ""
)

// FilingStatus is the taxpayer's filing status as reported on a return.
type FilingStatus string

// Filing statuses recognized by context-dependent calculation rules.
const (
	FilingSingle          FilingStatus = "Single"
	FilingHeadOfHousehold FilingStatus = "HOH"
	FilingMarriedJoint    FilingStatus = "MFJ"
	FilingMarriedSeparate FilingStatus = "MFS"
)

// FilingContext carries the external context some calculation rules need.
type FilingContext struct {
	FilingStatus   FilingStatus `json:"filing_status"`
	CombinedIncome float64      `json:"combined_income"`
}

// FieldValue holds one extracted field value. Most fields are dollar
// amounts; a small allow-list of indicator fields stays textual.
type FieldValue struct {
	Text   string  `json:"text,omitempty"`
	Number float64 `json:"number"`
	IsText bool    `json:"is_text,omitempty"`
}

// Fields maps field names to their extracted values for one form block.
type Fields map[string]FieldValue

// Amount returns the numeric value of a field, or 0 when the field is
// absent or textual. Calculation rules rely on this zero default.
func (f Fields) Amount(name string) float64 {
	v, ok := f[name]
	if !ok || v.IsText {
		return 0
	}
	return v.Number
}

// Has reports whether a field was extracted at all.
func (f Fields) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// ParsedForm is the canonical output unit for one recognized form block.
type ParsedForm struct {
	Fields      Fields           `json:"fields"`
	Extracted   []ExtractedField `json:"extracted,omitempty"`
	FormType    string           `json:"form_type"`
	UniqueID    string           `json:"unique_id"`
	EntityName  string           `json:"entity_name"`
	Label       string           `json:"label"`
	SourceFile  string           `json:"source_file"`
	TaxYear     string           `json:"tax_year"`
	Category    Category         `json:"category"`
	Owner       Owner            `json:"owner"`
	Income      float64          `json:"income"`
	Withholding float64          `json:"withholding"`
}

// ExtractedField records a single field match inside a form block.
type ExtractedField struct {
	Name       string  `json:"name"`
	RawValue   string  `json:"raw_value"`
	SourceLine string  `json:"source_line"`
	Confidence float64 `json:"confidence"`
}

// PatternID builds the stable identity for one extraction rule.
func PatternID(formType, fieldName string) string {
	return formType + "/" + fieldName
}

// SplitPatternID is the inverse of PatternID.
func SplitPatternID(id string) (formType, fieldName string) {
	if i := strings.Index(id, "/"); i >= 0 {
		return id[:i], id[i+1:]
	}
	return id, ""
}
