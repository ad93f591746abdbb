package parser

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/taxresolve/transcript-engine/internal/catalog"
	"github.com/taxresolve/transcript-engine/internal/model"
)

// textFields are indicator fields whose values stay raw text instead of
// being coerced to numbers.
var textFields = map[string]bool{
	"Direct Sales Indicator":   true,
	"FATCA Filing Requirement": true,
	"Second Notice Indicator":  true,
}

// contextWindow is how many characters around a match are kept as the
// extraction context for the learning subsystem.
const contextWindow = 100

// Extractor applies catalog field rules inside a single block's text.
type Extractor struct {
	catalog  *catalog.Catalog
	observer Observer
}

// NewExtractor creates an extractor. observer may be nil.
func NewExtractor(c *catalog.Catalog, observer Observer) *Extractor {
	return &Extractor{catalog: c, observer: observer}
}

// Extract runs every field rule of the block's definition against the
// block text only. Returns the extracted fields and per-field details;
// a block that matches nothing yields an empty map and the caller
// drops it.
func (e *Extractor) Extract(ctx context.Context, block Block) (model.Fields, []model.ExtractedField) {
	def := block.Definition
	if def == nil {
		return nil, nil
	}

	fields := make(model.Fields)
	details := make([]model.ExtractedField, 0, len(def.Fields))

	for _, rule := range def.Fields {
		pattern := e.catalog.FieldPattern(def.Code, rule.Name)
		if pattern == "" {
			continue
		}

		re, err := regexp.Compile(`(?i)` + pattern)
		if err != nil {
			// A bad pattern (typically a malformed override) is a
			// per-field failure, never a document failure.
			slog.Warn("invalid field pattern",
				"form", def.Code, "field", rule.Name, "error", err)
			e.observe(ctx, def.Code, rule.Name, pattern, "", block.Text, false)
			continue
		}

		raw, matchStart := searchBlock(re, block.Text)
		if raw == "" {
			e.observe(ctx, def.Code, rule.Name, pattern, "", snippet(block.Text, 0, contextWindow), false)
			continue
		}

		_, confidence := e.observe(ctx, def.Code, rule.Name, pattern, raw,
			snippet(block.Text, matchStart, contextWindow), true)
		if e.observer == nil {
			confidence = 1.0
		}

		value, ok := coerce(rule.Name, raw)
		if !ok {
			slog.Warn("could not parse field value",
				"form", def.Code, "field", rule.Name, "raw", raw)
			value = model.FieldValue{Number: 0}
		}
		fields[rule.Name] = value
		details = append(details, model.ExtractedField{
			Name:       rule.Name,
			RawValue:   raw,
			SourceLine: sourceLine(block.Text, matchStart),
			Confidence: confidence,
		})
	}

	return fields, details
}

// searchBlock looks for the first capture across the whole block, then
// retries line by line. The line fallback recovers fields whose
// surrounding text is too noisy for a single multi-line match.
func searchBlock(re *regexp.Regexp, blockText string) (value string, start int) {
	if m := re.FindStringSubmatchIndex(blockText); m != nil && m[2] >= 0 {
		return blockText[m[2]:m[3]], m[0]
	}
	offset := 0
	for _, line := range strings.Split(blockText, "\n") {
		if m := re.FindStringSubmatchIndex(line); m != nil && m[2] >= 0 {
			return line[m[2]:m[3]], offset + m[0]
		}
		offset += len(line) + 1
	}
	return "", 0
}

// coerce turns a captured string into a field value. Numeric fields
// drop thousands separators and dollar signs; allow-listed indicator
// fields stay textual.
func coerce(fieldName, raw string) (model.FieldValue, bool) {
	trimmed := strings.TrimSpace(raw)
	if textFields[fieldName] {
		return model.FieldValue{Text: trimmed, IsText: true}, true
	}
	cleaned := strings.NewReplacer(",", "", "$", "").Replace(trimmed)
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return model.FieldValue{}, false
	}
	return model.FieldValue{Number: n}, true
}

func (e *Extractor) observe(ctx context.Context, formType, fieldName, pattern, value, contextText string, success bool) (string, float64) {
	if e.observer == nil {
		return "", 0
	}
	return e.observer.ObserveExtraction(ctx, Observation{
		PatternID: model.PatternID(formType, fieldName),
		FieldName: fieldName,
		FieldType: catalog.FieldTypeFor(fieldName),
		Pattern:   pattern,
		Value:     value,
		Context:   contextText,
		Success:   success,
	})
}

// snippet returns up to window characters of text on either side of pos.
func snippet(text string, pos, window int) string {
	start := pos - window
	if start < 0 {
		start = 0
	}
	end := pos + window
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}

// sourceLine returns the full line containing the byte offset pos.
func sourceLine(text string, pos int) string {
	if pos < 0 || pos > len(text) {
		return ""
	}
	start := strings.LastIndexByte(text[:pos], '\n') + 1
	end := strings.IndexByte(text[pos:], '\n')
	if end < 0 {
		return text[start:]
	}
	return text[start : pos+end]
}
