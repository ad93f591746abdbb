package account

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/taxresolve/transcript-engine/internal/model"
)

// Two layouts show up in the wild. Compact puts everything on one line
// with an eight digit cycle date; spaced breaks the row across lines
// and has no cycle date.
var (
	compactRow = regexp.MustCompile(`(?m)^(\d{3}|n/a)([^\d\n]+?)(\d{8})\s+(\d{2}-\d{2}-\d{4})\s+(-?\$?[\d,]+\.\d{2})`)
	spacedRow  = regexp.MustCompile(`(?m)^(\d{3}|n/a)\s*([^\n]+)\n(?:[\w\s]*)?(\d{2}-\d{2}-\d{4})\s*\n\$?([\d,\.-]+)`)

	noReturnFiled = regexp.MustCompile(`(?i)no\s+tax\s+return\s+filed`)
)

// parseTransactions extracts the ledger rows from the section that
// follows the TRANSACTIONS marker. A transcript without the marker has
// no ledger. The compact layout wins when it matches; otherwise each
// "no tax return filed" notice becomes a synthetic n/a row and the
// spaced layout supplies the rest.
func parseTransactions(text string) []model.Transaction {
	idx := strings.Index(text, "TRANSACTIONS")
	if idx < 0 {
		return nil
	}
	section := text[idx:]

	txns := parseCompact(section)
	if len(txns) > 0 {
		return txns
	}
	for _, line := range strings.Split(section, "\n") {
		if noReturnFiled.MatchString(line) {
			txns = append(txns, model.Transaction{
				Code:    "n/a",
				Meaning: "No tax return filed",
			})
		}
	}
	return append(txns, parseSpaced(section)...)
}

func parseCompact(text string) []model.Transaction {
	var txns []model.Transaction
	for _, m := range compactRow.FindAllStringSubmatch(text, -1) {
		amount, err := parseAmount(m[5])
		if err != nil {
			slog.Warn("skipping transaction with bad amount",
				"code", m[1], "raw", m[5])
			continue
		}
		txns = append(txns, model.Transaction{
			Code:      m[1],
			Meaning:   strings.TrimSpace(m[2]),
			CycleDate: cycleDate(m[3]),
			Date:      isoDate(m[4]),
			Amount:    amount,
		})
	}
	return txns
}

func parseSpaced(text string) []model.Transaction {
	var txns []model.Transaction
	for _, m := range spacedRow.FindAllStringSubmatch(text, -1) {
		amount, err := parseAmount(m[4])
		if err != nil {
			slog.Warn("skipping transaction with bad amount",
				"code", m[1], "raw", m[4])
			continue
		}
		txns = append(txns, model.Transaction{
			Code:    m[1],
			Meaning: strings.TrimSpace(m[2]),
			Date:    isoDate(m[3]),
			Amount:  amount,
		})
	}
	return txns
}

// cycleDate reformats the eight digit YYYYMMDD posting cycle.
func cycleDate(raw string) string {
	if len(raw) != 8 {
		return raw
	}
	return raw[:4] + "-" + raw[4:6] + "-" + raw[6:]
}
