package parser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taxresolve/transcript-engine/internal/catalog"
	"github.com/taxresolve/transcript-engine/internal/common"
	"github.com/taxresolve/transcript-engine/internal/model"
)

// Document is one source file's raw text plus everything inferred from
// its name. Created per input, discarded after the parse call.
type Document struct {
	FileName       string
	Text           string
	TaxYear        string
	TrackingNumber string
	Owner          model.Owner
}

// NewDocument builds a document from raw text and its file name,
// inferring owner, tax year, and tracking number.
func NewDocument(text, fileName string) Document {
	return Document{
		FileName:       fileName,
		Text:           text,
		TaxYear:        TaxYearFrom(fileName, text),
		TrackingNumber: TrackingNumberFrom(text),
		Owner:          OwnerFromFileName(fileName),
	}
}

// Parser converts document text into parsed forms.
type Parser struct {
	catalog   *catalog.Catalog
	segmenter *Segmenter
	extractor *Extractor
}

// New creates a parser over a catalog. observer may be nil to disable
// the learning subsystem.
func New(c *catalog.Catalog, observer Observer) (*Parser, error) {
	seg, err := NewSegmenter(c)
	if err != nil {
		return nil, fmt.Errorf("building segmenter: %w", err)
	}
	return &Parser{
		catalog:   c,
		segmenter: seg,
		extractor: NewExtractor(c, observer),
	}, nil
}

// ParseDocument segments one document's text into form blocks and
// extracts a ParsedForm from each recognized block. Blocks that fail
// are skipped with a log entry; a document-level error is returned only
// for empty input.
func (p *Parser) ParseDocument(ctx context.Context, text, fileName string, fc *model.FilingContext) ([]model.ParsedForm, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: %s", common.ErrEmptyDocument, fileName)
	}

	doc := NewDocument(text, fileName)
	blocks := p.segmenter.Segment(doc.Text)
	slog.Debug("segmented document", "file", fileName, "blocks", len(blocks))

	forms := make([]model.ParsedForm, 0, len(blocks))
	for _, block := range blocks {
		if block.Definition == nil {
			slog.Info("skipping unrecognized form header",
				"file", fileName, "header", block.HeaderText)
			continue
		}

		fields, extracted := p.extractor.Extract(ctx, block)
		if len(fields) == 0 {
			slog.Info("skipping block with no matched fields",
				"file", fileName, "form", block.Definition.Code,
				"snippet", snippet(block.Text, 0, 80))
			continue
		}

		form := p.buildForm(block, fields, doc, fc)
		form.Extracted = extracted
		forms = append(forms, form)
	}

	slog.Info("parsed document", "file", fileName, "forms", len(forms))
	return forms, nil
}

// buildForm assembles the canonical record for one block: entity and
// identifier resolution, then derived income and withholding.
func (p *Parser) buildForm(block Block, fields model.Fields, doc Document, fc *model.FilingContext) model.ParsedForm {
	def := block.Definition

	form := model.ParsedForm{
		FormType:   def.Code,
		UniqueID:   resolveUniqueID(def, block.Text),
		EntityName: resolveEntityName(def, block.Text, fields),
		Label:      resolveLabel(def),
		Category:   def.Category,
		Fields:     fields,
		Owner:      doc.Owner,
		SourceFile: doc.FileName,
		TaxYear:    doc.TaxYear,
	}

	income, err := def.Income.Eval(fields, fc)
	if err != nil {
		slog.Warn("income calculation failed, defaulting to 0",
			"form", def.Code, "file", doc.FileName, "error", err)
	}
	withholding, err := def.Withholding.Eval(fields, fc)
	if err != nil {
		slog.Warn("withholding calculation failed, defaulting to 0",
			"form", def.Code, "file", doc.FileName, "error", err)
	}
	form.Income = income
	form.Withholding = withholding

	return form
}
