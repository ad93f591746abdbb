package learning

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taxresolve/transcript-engine/internal/model"
)

const maxSuggestions = 5

var moneyShape = `\$?([\d,]+\.?\d*)`

// ocrConfusions are character classes for glyphs OCR routinely swaps.
var ocrConfusions = []struct {
	from string
	to   string
}{
	{"O", "[O0]"},
	{"0", "[O0]"},
	{"l", "[l1I]"},
	{"1", "[l1I]"},
	{"S", "[S5]"},
	{"5", "[S5]"},
	{"B", "[B8]"},
	{"8", "[B8]"},
}

var valuePrefixes = []string{"amount", "value", "total", "income", "withholding"}

// generateSuggestions proposes replacement patterns after a failed or
// corrected extraction. Every candidate is compiled before it is kept,
// and none is ever applied without an explicit adoption.
func generateSuggestions(perf *model.PatternPerformance, res *model.ExtractionResult, correctValue string) []model.PatternSuggestion {
	var out []model.PatternSuggestion

	add := func(pattern, reasoning string, confidence float64, cases []string) {
		if len(out) >= maxSuggestions {
			return
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return
		}
		for _, s := range out {
			if s.SuggestedRegex == pattern {
				return
			}
		}
		out = append(out, model.PatternSuggestion{
			CreatedAt:      time.Now(),
			SuggestionID:   uuid.New().String(),
			PatternID:      perf.PatternID,
			SuggestedRegex: pattern,
			Reasoning:      reasoning,
			TestCases:      cases,
			Confidence:     confidence,
		})
	}

	context := res.ContextText

	// Anchor on the known correct value itself, then on the label that
	// precedes it in the document.
	if correctValue != "" && strings.Contains(context, correctValue) {
		line := lineContaining(context, correctValue)
		add(
			`\b`+regexp.QuoteMeta(correctValue)+`\b`,
			"anchored on the corrected value as a literal",
			0.8,
			[]string{line},
		)
		if label := labelBefore(line, correctValue); label != "" {
			add(
				`(?i)`+regexp.QuoteMeta(label)+`[:\s]*`+moneyShape,
				fmt.Sprintf("anchored on label %q preceding the corrected value", label),
				0.7,
				[]string{line},
			)
		}
	}

	// Generic money labels that show up near the field. Each one that
	// appears gets its own candidate.
	for _, prefix := range valuePrefixes {
		if !strings.Contains(strings.ToLower(context), prefix) {
			continue
		}
		add(
			`(?i)`+prefix+`[:\s]*`+moneyShape,
			fmt.Sprintf("common label %q appears in the surrounding text", prefix),
			0.5,
			[]string{lineContaining(context, prefix)},
		)
	}

	// Tolerate OCR glyph swaps in the original pattern's literals.
	if ocr := ocrTolerant(perf.OriginalPattern); ocr != perf.OriginalPattern {
		add(
			ocr,
			"original pattern with OCR confusable characters widened to classes",
			0.6,
			[]string{context},
		)
	}

	// Rebuild from the actual document line, numbers generalized.
	if correctValue != "" {
		if line := lineContaining(context, correctValue); line != "" {
			generalized := regexp.QuoteMeta(strings.TrimSpace(line))
			generalized = regexp.MustCompile(`(?:\\\$)?[\d,]+(?:\\\.\d+)?`).
				ReplaceAllString(generalized, moneyShape)
			if strings.Contains(generalized, "(") {
				add(
					`(?i)`+generalized,
					"derived from the document line containing the corrected value",
					0.7,
					[]string{line},
				)
			}
		}
	}

	// Last resort: the original pattern with matching relaxed.
	relaxed := perf.OriginalPattern
	if !strings.HasPrefix(relaxed, "(?i)") {
		relaxed = "(?i)" + relaxed
	}
	relaxed = strings.ReplaceAll(relaxed, `\s+`, `\s*`)
	if relaxed != perf.OriginalPattern {
		add(
			relaxed,
			"original pattern with case folding and optional whitespace",
			0.4,
			[]string{context},
		)
	}

	return out
}

// lineContaining returns the first line of text holding the substring.
func lineContaining(text, sub string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(strings.ToLower(line), strings.ToLower(sub)) {
			return strings.TrimSpace(line)
		}
	}
	return ""
}

// labelBefore pulls the word run immediately preceding the value on its
// line, which is usually the field's printed label.
func labelBefore(line, value string) string {
	idx := strings.Index(line, value)
	if idx <= 0 {
		return ""
	}
	label := strings.TrimRight(line[:idx], " :\t$")
	if i := strings.LastIndexAny(label, ".;|"); i >= 0 {
		label = label[i+1:]
	}
	label = strings.TrimSpace(label)
	if len(label) < 3 {
		return ""
	}
	return label
}

// ocrTolerant widens confusable literal characters into classes. Text
// already inside a character class is left alone.
func ocrTolerant(pattern string) string {
	var b strings.Builder
	inClass := false
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		switch {
		case ch == '\\' && i+1 < len(pattern):
			b.WriteByte(ch)
			i++
			b.WriteByte(pattern[i])
			continue
		case ch == '[':
			inClass = true
		case ch == ']':
			inClass = false
		}
		if !inClass {
			replaced := false
			for _, c := range ocrConfusions {
				if string(ch) == c.from {
					b.WriteString(c.to)
					replaced = true
					break
				}
			}
			if replaced {
				continue
			}
		}
		b.WriteByte(ch)
	}
	return b.String()
}
