package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxresolve/transcript-engine/internal/catalog"
)

func newTestSegmenter(t *testing.T) *Segmenter {
	t.Helper()
	seg, err := NewSegmenter(catalog.New())
	require.NoError(t, err)
	return seg
}

func TestSegmentSplitsOnFormHeaders(t *testing.T) {
	seg := newTestSegmenter(t)

	text := "Form 1099-NEC\n" +
		"Payer: ACME LLC\n" +
		"Non-Employee Compensation: $12,000.00\n" +
		"\n" +
		"Form 1099-INT\n" +
		"Interest: $55.00\n"

	blocks := seg.Segment(text)
	require.Len(t, blocks, 2)

	assert.Equal(t, "1099-NEC", blocks[0].Definition.Code)
	assert.Contains(t, blocks[0].Text, "ACME LLC")
	assert.NotContains(t, blocks[0].Text, "Interest")

	assert.Equal(t, "1099-INT", blocks[1].Definition.Code)
	assert.Equal(t, len(text), blocks[1].End)
}

func TestSegmentAttributesSpecificVariantFirst(t *testing.T) {
	seg := newTestSegmenter(t)

	text := "Form 1098-E\n" +
		"Student Loan Interest: $900.00\n" +
		"\n" +
		"Form 1098\n" +
		"Mortgage Interest Received: $7,200.00\n"

	blocks := seg.Segment(text)
	require.Len(t, blocks, 2)
	assert.Equal(t, "1098-E", blocks[0].Definition.Code)
	assert.Equal(t, "1098", blocks[1].Definition.Code)
}

func TestSegmentDistinguishes1099SVariants(t *testing.T) {
	seg := newTestSegmenter(t)

	text := "Form 1099-SA\n" +
		"Trustee: HSA BANK\n" +
		"MSA Gross Distributions: $500.00\n" +
		"\n" +
		"Form 1099-S\n" +
		"Gross Proceeds: $250,000.00\n"

	blocks := seg.Segment(text)
	require.Len(t, blocks, 2)
	assert.Equal(t, "1099-SA", blocks[0].Definition.Code)
	assert.Equal(t, "1099-S", blocks[1].Definition.Code)
}

func TestSegmentUnknownFormHeader(t *testing.T) {
	seg := newTestSegmenter(t)

	text := "Form 9999\nSomething unrecognized: $1.00\n"

	blocks := seg.Segment(text)
	require.Len(t, blocks, 1)
	assert.Nil(t, blocks[0].Definition)
	assert.Contains(t, blocks[0].HeaderText, "Form 9999")
}

func TestSegmentNoHeaders(t *testing.T) {
	seg := newTestSegmenter(t)
	assert.Nil(t, seg.Segment("This text mentions no recognizable headers at all."))
}
