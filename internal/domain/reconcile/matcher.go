package reconcile

import (
	"math"

	"rentdesk-backend/internal/domain/ledger"
)

// Config holds matcher configuration.
type Config struct {
	AmountTolerance float64 // Default: 0.01 (1 cent)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		AmountTolerance: 0.01,
	}
}

// Matcher links statement lines to ledger entries by signed amount.
type Matcher struct {
	config Config
}

// NewMatcher creates a new matcher with the given config.
func NewMatcher(config Config) *Matcher {
	return &Matcher{config: config}
}

// Run performs a single automatic-match pass over the lines. For each
// UNMATCHED line it scans the candidate entries in order and links the first
// one whose bank-convention signed amount equals the line amount within the
// tolerance. Ties between equal-amount candidates are resolved by scan
// order; there is no secondary date or description weighting. Candidates
// already linked to another line (including earlier lines in this pass) are
// skipped.
//
// Lines are mutated in place. Returns the number of lines matched.
func (m *Matcher) Run(lines []Line, candidates []*ledger.Entry, usedEntryIDs map[int64]bool) int {
	if usedEntryIDs == nil {
		usedEntryIDs = make(map[int64]bool)
	}

	const epsilon = 0.0000001
	matched := 0

	for i := range lines {
		if lines[i].Status != LineUnmatched {
			continue
		}

		for _, entry := range candidates {
			if usedEntryIDs[entry.ID] {
				continue
			}

			diff := math.Abs(entry.BankSignedAmount() - lines[i].Amount)
			if diff > m.config.AmountTolerance+epsilon {
				continue
			}

			id := entry.ID
			lines[i].Status = LineMatched
			lines[i].MatchedEntryID = &id
			usedEntryIDs[id] = true
			matched++
			break
		}
	}

	return matched
}
