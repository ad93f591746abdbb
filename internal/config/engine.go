package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/taxresolve/transcript-engine/internal/catalog"
	"github.com/taxresolve/transcript-engine/internal/common"
	"github.com/taxresolve/transcript-engine/internal/model"
)

// LoadFilingContext reads the filing context from Viper. Returns nil
// when no filing status is configured; context-dependent rules then
// fall back to their defaults.
func LoadFilingContext() (*model.FilingContext, error) {
	status := viper.GetString("filing.status")
	if status == "" {
		return nil, nil
	}

	fc := &model.FilingContext{
		CombinedIncome: viper.GetFloat64("filing.combined_income"),
	}
	switch status {
	case "single":
		fc.FilingStatus = model.FilingSingle
	case "hoh", "head_of_household":
		fc.FilingStatus = model.FilingHeadOfHousehold
	case "mfj", "married_joint":
		fc.FilingStatus = model.FilingMarriedJoint
	case "mfs", "married_separate":
		fc.FilingStatus = model.FilingMarriedSeparate
	default:
		return nil, fmt.Errorf("%w: unknown filing status %q", common.ErrInvalidConfig, status)
	}
	return fc, nil
}

// ApplyPatternOverrides installs configured extraction pattern
// overrides on the catalog. Config keys are form type to field name to
// pattern, under "patterns.overrides".
func ApplyPatternOverrides(cat *catalog.Catalog) error {
	overrides := viper.GetStringMap("patterns.overrides")
	for formType, fields := range overrides {
		fieldMap, ok := fields.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: pattern overrides for form %q", common.ErrInvalidConfig, formType)
		}
		for fieldName, pattern := range fieldMap {
			p, ok := pattern.(string)
			if !ok {
				return fmt.Errorf("%w: pattern override %s/%s", common.ErrInvalidConfig, formType, fieldName)
			}
			if err := cat.Override(formType, fieldName, p); err != nil {
				return fmt.Errorf("pattern override %s/%s: %w", formType, fieldName, err)
			}
		}
	}
	return nil
}
