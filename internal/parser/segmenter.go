package parser

import (
	"fmt"
	"regexp"

	"github.com/taxresolve/transcript-engine/internal/catalog"
)

// Block is a contiguous text span attributed to at most one form type.
// Definition is nil when the header token was recognized as a form
// header but is not present in the catalog.
type Block struct {
	Definition *catalog.Definition
	HeaderText string
	Text       string
	Start      int
	End        int
}

// Segmenter splits document text into form-scoped blocks using a single
// alternation built from every registered detection pattern, in catalog
// declaration order.
type Segmenter struct {
	headerRe   *regexp.Regexp
	detections []*regexp.Regexp
	defs       []*catalog.Definition
}

// genericHeader catches "Form <token>" headers that no registered
// detection claims, so unknown forms surface as skippable blocks
// instead of being silently merged into the preceding block.
const genericHeader = `Form\s+[A-Z0-9][A-Z0-9-]*`

// NewSegmenter compiles the detection alternation for a catalog.
func NewSegmenter(c *catalog.Catalog) (*Segmenter, error) {
	defs := c.Definitions()

	alternation := ""
	detections := make([]*regexp.Regexp, len(defs))
	for i, d := range defs {
		det, err := regexp.Compile(`(?i)^(?:` + d.Detection + `)`)
		if err != nil {
			return nil, fmt.Errorf("detection pattern for %s: %w", d.Code, err)
		}
		detections[i] = det
		alternation += `(?:` + d.Detection + `)|`
	}
	alternation += `(?:` + genericHeader + `)`

	headerRe, err := regexp.Compile(`(?i)` + alternation)
	if err != nil {
		return nil, fmt.Errorf("header alternation: %w", err)
	}

	return &Segmenter{
		defs:       defs,
		detections: detections,
		headerRe:   headerRe,
	}, nil
}

// Segment splits text into blocks, each spanning from one recognized
// header to the next or end of text.
func (s *Segmenter) Segment(text string) []Block {
	locs := s.headerRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	blocks := make([]Block, 0, len(locs))
	for i, loc := range locs {
		start := loc[0]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks = append(blocks, Block{
			Definition: s.attribute(text[start:end]),
			HeaderText: text[loc[0]:loc[1]],
			Text:       text[start:end],
			Start:      start,
			End:        end,
		})
	}
	return blocks
}

// attribute finds the owning definition for a block: the first
// detection in catalog declaration order that matches at the block
// start wins. Returns nil for headers outside the catalog.
func (s *Segmenter) attribute(blockText string) *catalog.Definition {
	for i, det := range s.detections {
		if det.MatchString(blockText) {
			return s.defs[i]
		}
	}
	return nil
}
