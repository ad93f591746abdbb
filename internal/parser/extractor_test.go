package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxresolve/transcript-engine/internal/catalog"
	"github.com/taxresolve/transcript-engine/internal/model"
)

// recordingObserver captures observations for assertions.
type recordingObserver struct {
	observations []Observation
	confidence   float64
}

func (r *recordingObserver) ObserveExtraction(_ context.Context, obs Observation) (string, float64) {
	r.observations = append(r.observations, obs)
	return "ext-1", r.confidence
}

func blockFor(t *testing.T, c *catalog.Catalog, code, text string) Block {
	t.Helper()
	def, ok := c.Lookup(code)
	require.True(t, ok)
	return Block{Definition: def, Text: text, End: len(text)}
}

func TestExtractNumericAndTextFields(t *testing.T) {
	c := catalog.New()
	e := NewExtractor(c, nil)

	text := `Form 1099-MISC
Rents: $1,200.00
Royalties: 800.50
Direct Sales Indicator: Yes
`
	fields, details := e.Extract(context.Background(), blockFor(t, c, "1099-MISC", text))

	assert.InDelta(t, 1200.0, fields.Amount("Rents"), 0.001)
	assert.InDelta(t, 800.50, fields.Amount("Royalties"), 0.001)

	indicator := fields["Direct Sales Indicator"]
	assert.True(t, indicator.IsText)
	assert.Equal(t, "Yes", indicator.Text)
	// Textual indicators never contribute to amount sums.
	assert.Zero(t, fields.Amount("Direct Sales Indicator"))

	require.Len(t, details, 3)
	for _, d := range details {
		assert.InDelta(t, 1.0, d.Confidence, 0.001)
		assert.NotEmpty(t, d.SourceLine)
	}
}

func TestExtractUsesOverriddenPattern(t *testing.T) {
	c := catalog.New()
	require.NoError(t, c.Override("1099-NEC", "Non-Employee Compensation",
		`NEC total[:\s]*\$?([\d,.]+)`))

	e := NewExtractor(c, nil)
	text := "Form 1099-NEC\nNEC total: $9,000.00\n"
	fields, _ := e.Extract(context.Background(), blockFor(t, c, "1099-NEC", text))

	assert.InDelta(t, 9000.0, fields.Amount("Non-Employee Compensation"), 0.001)
}

func TestExtractReportsMissesToObserver(t *testing.T) {
	c := catalog.New()
	obs := &recordingObserver{confidence: 0.7}
	e := NewExtractor(c, obs)

	text := "Form 1099-NEC\nNon-Employee Compensation: $5,000.00\n"
	fields, details := e.Extract(context.Background(), blockFor(t, c, "1099-NEC", text))

	assert.InDelta(t, 5000.0, fields.Amount("Non-Employee Compensation"), 0.001)
	require.Len(t, details, 1)
	// The observer's score flows into the detail record.
	assert.InDelta(t, 0.7, details[0].Confidence, 0.001)

	var successes, failures int
	for _, o := range obs.observations {
		if o.Success {
			successes++
			assert.Equal(t, "5,000.00", o.Value)
			assert.NotEmpty(t, o.Context)
		} else {
			failures++
			assert.Empty(t, o.Value)
		}
	}
	// One field matched; the form's other field rule did not.
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, failures)
}

func TestExtractFindsValueOnNoisyLine(t *testing.T) {
	c := catalog.New()
	e := NewExtractor(c, nil)

	// The value sits mid-line surrounded by unrelated text.
	text := "Form W-2G\nxx Gross winnings: 2,500.00 yy\nxx Federal income tax withheld: 600.00 yy\n"
	fields, _ := e.Extract(context.Background(), blockFor(t, c, "W-2G", text))

	assert.InDelta(t, 2500.0, fields.Amount("Gross Winnings"), 0.001)
	assert.InDelta(t, 600.0, fields.Amount("Federal Withholding"), 0.001)
}

func TestExtractNilDefinition(t *testing.T) {
	e := NewExtractor(catalog.New(), nil)
	fields, details := e.Extract(context.Background(), Block{Text: "Form 9999"})
	assert.Nil(t, fields)
	assert.Nil(t, details)
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		raw    string
		want   model.FieldValue
		wantOK bool
	}{
		{"plain number", "Rents", "1200", model.FieldValue{Number: 1200}, true},
		{"separators stripped", "Rents", "$1,200.50", model.FieldValue{Number: 1200.50}, true},
		{"indicator stays text", "Direct Sales Indicator", " Yes ", model.FieldValue{Text: "Yes", IsText: true}, true},
		{"garbage fails", "Rents", "n/a", model.FieldValue{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := coerce(tt.field, tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
