// Package catalog holds the per-form extraction rules: detection
// patterns, field rules, identifier rules, and calculation rules.
// Definitions are data, not code; field patterns can be swapped per
// (form type, field name) at runtime without a restart.
package catalog

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/taxresolve/transcript-engine/internal/model"
)

// FieldRule binds a field name to the regex that captures its value.
// Capture group 1 is the value.
type FieldRule struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
}

// IdentifierRule captures an entity identifier (EIN/FIN) or name.
type IdentifierRule struct {
	Role    string `json:"role"`
	Pattern string `json:"pattern"`
}

// Definition describes how to detect and extract one form type.
// Field order is part of the contract and is preserved.
type Definition struct {
	Code        string
	Detection   string
	Category    model.Category
	Fields      []FieldRule
	Identifiers []IdentifierRule
	Income      CalcRule
	Withholding CalcRule
}

// FieldPattern returns the declared pattern for a field, or "".
func (d *Definition) FieldPattern(name string) string {
	for _, fr := range d.Fields {
		if fr.Name == name {
			return fr.Pattern
		}
	}
	return ""
}

// Catalog is the registry of form definitions. The definition list and
// its declaration order are immutable after construction; only the
// per-field override table mutates, guarded by the mutex.
type Catalog struct {
	byCode    map[string]*Definition
	overrides map[string]string
	defs      []*Definition
	mu        sync.RWMutex
}

// New builds a catalog over the built-in form definitions.
func New() *Catalog {
	return NewWith(defaultDefinitions())
}

// NewWith builds a catalog over an explicit definition list, preserving
// its order for detection tie-breaking.
func NewWith(defs []*Definition) *Catalog {
	c := &Catalog{
		defs:      defs,
		byCode:    make(map[string]*Definition, len(defs)),
		overrides: make(map[string]string),
	}
	for _, d := range defs {
		if _, dup := c.byCode[d.Code]; dup {
			slog.Warn("duplicate form definition ignored", "code", d.Code)
			continue
		}
		c.byCode[d.Code] = d
	}
	return c
}

// Definitions returns the definitions in declaration order.
func (c *Catalog) Definitions() []*Definition {
	return c.defs
}

// Lookup returns the definition for a form code.
func (c *Catalog) Lookup(code string) (*Definition, bool) {
	d, ok := c.byCode[code]
	return d, ok
}

// FieldPattern returns the pattern the extractor should use for one
// field: a runtime override when present, otherwise the declared rule.
func (c *Catalog) FieldPattern(formType, fieldName string) string {
	c.mu.RLock()
	p, ok := c.overrides[model.PatternID(formType, fieldName)]
	c.mu.RUnlock()
	if ok {
		return p
	}
	d, found := c.byCode[formType]
	if !found {
		return ""
	}
	return d.FieldPattern(fieldName)
}

// Override swaps the pattern for one field at runtime. The pattern must
// compile; declaration order and all other rules are untouched. Form
// codes resolve case-insensitively since config file keys arrive
// lowercased.
func (c *Catalog) Override(formType, fieldName, pattern string) error {
	d, ok := c.byCode[formType]
	if !ok {
		for code, def := range c.byCode {
			if strings.EqualFold(code, formType) {
				d, ok = def, true
				formType = code
				break
			}
		}
	}
	if !ok {
		return fmt.Errorf("unknown form type %q", formType)
	}
	found := false
	for _, fr := range d.Fields {
		if strings.EqualFold(fr.Name, fieldName) {
			fieldName = fr.Name
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("form %q has no field %q", formType, fieldName)
	}
	if _, err := regexp.Compile("(?i)" + pattern); err != nil {
		return fmt.Errorf("invalid override pattern for %s: %w", model.PatternID(formType, fieldName), err)
	}
	c.mu.Lock()
	c.overrides[model.PatternID(formType, fieldName)] = pattern
	c.mu.Unlock()
	slog.Info("field pattern overridden", "form", formType, "field", fieldName)
	return nil
}

// ClearOverride restores the declared pattern for one field.
func (c *Catalog) ClearOverride(formType, fieldName string) {
	c.mu.Lock()
	delete(c.overrides, model.PatternID(formType, fieldName))
	c.mu.Unlock()
}

// FieldTypeFor infers the value type of a field from its name, used by
// confidence scoring to pick a validator.
func FieldTypeFor(fieldName string) model.FieldType {
	lower := strings.ToLower(fieldName)
	switch {
	case containsAny(lower, "income", "wages", "compensation", "dividends", "interest"):
		return model.FieldTypeIncome
	case containsAny(lower, "withholding", "tax withheld"):
		return model.FieldTypeWithholding
	case containsAny(lower, "ein", "fin", "identification"):
		return model.FieldTypeIdentifier
	case containsAny(lower, "date", "year"):
		return model.FieldTypeDate
	case containsAny(lower, "status", "filing", "indicator", "requirement"):
		return model.FieldTypeStatus
	case containsAny(lower, "amount", "balance", "proceeds", "distribution", "benefits", "winnings", "rents", "royalties"):
		return model.FieldTypeAmount
	default:
		return model.FieldTypeText
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
