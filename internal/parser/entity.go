package parser

import (
	"regexp"
	"strings"

	"github.com/taxresolve/transcript-engine/internal/catalog"
	"github.com/taxresolve/transcript-engine/internal/model"
)

// entityKeySuffixes mark identifier/field keys that name the paying
// entity rather than an ID number.
var entityKeySuffixes = []string{"name", "payer", "employer", "lender", "trustee"}

// uppercaseRun is the last-resort entity heuristic: a run of 3+
// uppercase characters, interior digits and punctuation allowed. It
// occasionally picks unrelated capitalized text; that precision/recall
// trade-off is intentional.
var uppercaseRun = regexp.MustCompile(`[A-Z][A-Z0-9&.,\-]{2,}(?:[ ][A-Z0-9&.,\-]+)*`)

func isEntityKey(key string) bool {
	lower := strings.ToLower(key)
	for _, suffix := range entityKeySuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// resolveEntityName finds the payer/employer name for a block via an
// ordered strategy chain; each step runs only when the previous one
// produced nothing. The chosen value is removed from fields when it
// duplicates an extracted field, to avoid double-reporting.
func resolveEntityName(def *catalog.Definition, blockText string, fields model.Fields) string {
	name := entityFromIdentifiers(def, blockText)
	if name == "" {
		name = entityFromFields(fields)
	}
	if name == "" {
		name = strings.TrimSpace(uppercaseRun.FindString(blockText))
	}
	if name == "" {
		return ""
	}
	for key, v := range fields {
		if v.IsText && strings.TrimSpace(v.Text) == name {
			delete(fields, key)
		}
	}
	return name
}

func entityFromIdentifiers(def *catalog.Definition, blockText string) string {
	for _, id := range def.Identifiers {
		if !isEntityKey(id.Role) {
			continue
		}
		re, err := regexp.Compile(`(?i)` + id.Pattern)
		if err != nil {
			continue
		}
		if m := re.FindStringSubmatch(blockText); len(m) > 1 {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

func entityFromFields(fields model.Fields) string {
	for key, v := range fields {
		if isEntityKey(key) && v.IsText {
			if t := strings.TrimSpace(v.Text); t != "" {
				return t
			}
		}
	}
	return ""
}

// resolveUniqueID pulls the EIN/FIN identifier out of the block, with a
// generic fallback when the definition declares no ID rule.
func resolveUniqueID(def *catalog.Definition, blockText string) string {
	for _, id := range def.Identifiers {
		role := strings.ToUpper(id.Role)
		if role != "EIN" && role != "FIN" {
			continue
		}
		re, err := regexp.Compile(`(?i)` + id.Pattern)
		if err != nil {
			continue
		}
		if m := re.FindStringSubmatch(blockText); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}

	var fallback *regexp.Regexp
	switch {
	case def.Code == "W-2":
		fallback = einFallback
	case strings.HasPrefix(def.Code, "1099"):
		fallback = finFallback
	default:
		return ""
	}
	if m := fallback.FindStringSubmatch(blockText); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return "UNKNOWN"
}

var (
	einFallback = regexp.MustCompile(`(?i)Employer Identification Number \(EIN\):\s*([\d\-]+)`)
	finFallback = regexp.MustCompile(`(?i)Payer's Federal Identification Number \(FIN\):\s*([\d\-]+)`)
)

// resolveLabel tags the entity as Employer or Payer.
func resolveLabel(def *catalog.Definition) string {
	for _, id := range def.Identifiers {
		switch strings.ToLower(id.Role) {
		case "employer":
			return "E"
		case "payer":
			return "P"
		}
	}
	if def.Code == "W-2" {
		return "E"
	}
	if strings.HasPrefix(def.Code, "1099") {
		return "P"
	}
	return ""
}

var (
	spouseToken   = regexp.MustCompile(`\bS\b|\bSPOUSE\b`)
	atSpouseToken = regexp.MustCompile(`AT\s+\d{2}\s+E`)
	taxpayerToken = regexp.MustCompile(`\bTP\b`)
	jointToken    = regexp.MustCompile(`\b(?:COMBINED|JOINT)\b`)
)

// OwnerFromFileName classifies a document as taxpayer, spouse, or
// joint from file-name tokens only. Best effort, defaults to taxpayer.
func OwnerFromFileName(fileName string) model.Owner {
	if fileName == "" {
		return model.OwnerTaxpayer
	}
	upper := strings.ToUpper(strings.TrimSpace(fileName))

	switch {
	case spouseToken.MatchString(upper):
		return model.OwnerSpouse
	case atSpouseToken.MatchString(upper):
		return model.OwnerSpouse
	case taxpayerToken.MatchString(upper):
		return model.OwnerTaxpayer
	case jointToken.MatchString(upper):
		return model.OwnerJoint
	default:
		return model.OwnerTaxpayer
	}
}

var (
	shortYearToken = regexp.MustCompile(`(?:WI|AT|TI)\s+(\d{2})\b`)
	longYearToken  = regexp.MustCompile(`(20\d{2})`)
	trackingToken  = regexp.MustCompile(`(?i)Tracking Number[:\s]*(\d+)`)
)

// TaxYearFrom infers the tax year from the file name, falling back to
// the first 20xx year in the name and then in the text.
func TaxYearFrom(fileName, text string) string {
	if m := shortYearToken.FindStringSubmatch(strings.ToUpper(fileName)); len(m) > 1 {
		// Two-digit years pivot at 50: 00-50 are 20xx, 51-99 are 19xx.
		if m[1] <= "50" {
			return "20" + m[1]
		}
		return "19" + m[1]
	}
	if m := longYearToken.FindStringSubmatch(fileName); len(m) > 1 {
		return m[1]
	}
	if m := longYearToken.FindStringSubmatch(text); len(m) > 1 {
		return m[1]
	}
	return "Unknown"
}

// TrackingNumberFrom pulls the transcript tracking number when present.
func TrackingNumberFrom(text string) string {
	if m := trackingToken.FindStringSubmatch(text); len(m) > 1 {
		return m[1]
	}
	return ""
}
