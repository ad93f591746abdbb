package catalog

import (
	"fmt"

	"github.com/taxresolve/transcript-engine/internal/model"
)

// CalcRule computes a derived value (income or withholding) from the
// extracted fields of one form. It is a tagged variant: a rule either
// needs no external context or needs the filing context, and dispatch
// happens on the tag rather than runtime introspection.
type CalcRule struct {
	fn    func(model.Fields) float64
	ctxFn func(model.Fields, model.FilingContext) float64
}

// NoContext wraps a rule that depends only on the extracted fields.
func NoContext(fn func(model.Fields) float64) CalcRule {
	return CalcRule{fn: fn}
}

// WithFilingContext wraps a rule that also needs filing status and
// combined income.
func WithFilingContext(fn func(model.Fields, model.FilingContext) float64) CalcRule {
	return CalcRule{ctxFn: fn}
}

// NeedsContext reports whether the rule requires a filing context.
func (r CalcRule) NeedsContext() bool {
	return r.ctxFn != nil
}

// IsZero reports whether no rule is defined; evaluation yields 0.
func (r CalcRule) IsZero() bool {
	return r.fn == nil && r.ctxFn == nil
}

// Eval runs the rule. A missing filing context for a context rule and a
// panicking rule body both degrade to (0, error); the caller logs and
// keeps the zero value rather than failing the document.
func (r CalcRule) Eval(fields model.Fields, fc *model.FilingContext) (v float64, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			v = 0
			err = fmt.Errorf("calculation rule panicked: %v", rec)
		}
	}()

	switch {
	case r.ctxFn != nil:
		if fc == nil {
			return 0, fmt.Errorf("calculation rule requires filing context")
		}
		return r.ctxFn(fields, *fc), nil
	case r.fn != nil:
		return r.fn(fields), nil
	default:
		return 0, nil
	}
}

// ssaThreshold returns the combined-income threshold above which social
// security benefits become partially taxable.
func ssaThreshold(status model.FilingStatus) float64 {
	switch status {
	case model.FilingMarriedJoint, model.FilingMarriedSeparate:
		return 34000
	default: // Single, HOH, unknown
		return 25000
	}
}

// SSABenefitIncome implements the social-security taxability rule: 85%
// of total benefits paid counts as income above the filing-status
// threshold, or when combined income is unreported (0); otherwise none.
func SSABenefitIncome(fields model.Fields, fc model.FilingContext) float64 {
	benefits := fields.Amount("Total Benefits Paid")
	if fc.CombinedIncome == 0 {
		return benefits * 0.85
	}
	if fc.CombinedIncome > ssaThreshold(fc.FilingStatus) {
		return benefits * 0.85
	}
	return 0
}

// sum adds up the named fields, treating absent ones as 0.
func sum(names ...string) func(model.Fields) float64 {
	return func(f model.Fields) float64 {
		var total float64
		for _, n := range names {
			total += f.Amount(n)
		}
		return total
	}
}

// zero is the rule for forms whose boxes are informational, not income.
func zero(model.Fields) float64 { return 0 }
