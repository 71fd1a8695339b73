// Package reconcile implements bank-statement reconciliation: statement
// line state transitions, automatic amount matching against ledger entries,
// and the balance math used when a reconciliation is finalized.
package reconcile

import (
	"time"
)

// Status is the lifecycle state of a reconciliation.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinalized  Status = "FINALIZED"
)

// LineStatus is the resolution state of a single statement line.
type LineStatus string

const (
	LineUnmatched LineStatus = "UNMATCHED"
	LineMatched   LineStatus = "MATCHED"
	LineExcluded  LineStatus = "EXCLUDED"
)

// Reconciliation matches one bank-statement period against ledger entries.
type Reconciliation struct {
	ID               int64      `json:"id"`
	BankAccountID    int64      `json:"bank_account_id"`
	Status           Status     `json:"status"`
	PeriodStart      time.Time  `json:"period_start"`
	PeriodEnd        time.Time  `json:"period_end"`
	StatementBalance float64    `json:"statement_balance"`
	LedgerBalance    *float64   `json:"ledger_balance,omitempty"`
	Variance         *float64   `json:"variance,omitempty"`
	FinalizedAt      *time.Time `json:"finalized_at,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	ImportRef        string     `json:"import_ref"`
	CreatedAt        time.Time  `json:"created_at"`

	Lines []Line `json:"lines,omitempty"`
}

// Line is one transaction row from an imported statement. Amount is signed
// bank convention: positive deposit, negative withdrawal.
type Line struct {
	ID               int64      `json:"id"`
	ReconciliationID int64      `json:"reconciliation_id"`
	Date             time.Time  `json:"date"`
	Description      string     `json:"description"`
	Amount           float64    `json:"amount"`
	Status           LineStatus `json:"status"`
	MatchedEntryID   *int64     `json:"matched_entry_id,omitempty"`
}

// CanTransition reports whether a line may move from its current status to
// the target status. MATCHED and EXCLUDED are mutually exclusive; both are
// only reachable from UNMATCHED.
func (s LineStatus) CanTransition(to LineStatus) bool {
	switch s {
	case LineUnmatched:
		return to == LineMatched || to == LineExcluded
	case LineMatched:
		return to == LineUnmatched
	case LineExcluded:
		return to == LineUnmatched
	}
	return false
}

// Summary holds the aggregate counts shown after ingesting a statement and
// on every reconciliation view.
type Summary struct {
	TotalLines       int     `json:"total_lines"`
	MatchedLines     int     `json:"matched_lines"`
	UnmatchedLines   int     `json:"unmatched_lines"`
	ExcludedLines    int     `json:"excluded_lines"`
	TotalDeposits    float64 `json:"total_deposits"`
	TotalWithdrawals float64 `json:"total_withdrawals"`
}

// Summarize computes aggregate counts over a set of lines.
func Summarize(lines []Line) Summary {
	var s Summary
	s.TotalLines = len(lines)
	for _, l := range lines {
		switch l.Status {
		case LineMatched:
			s.MatchedLines++
		case LineUnmatched:
			s.UnmatchedLines++
		case LineExcluded:
			s.ExcludedLines++
		}
		if l.Amount >= 0 {
			s.TotalDeposits += l.Amount
		} else {
			s.TotalWithdrawals += -l.Amount
		}
	}
	return s
}

// Unresolved returns the number of lines still UNMATCHED. Finalize is gated
// on this being zero; excluded lines do not count.
func Unresolved(lines []Line) int {
	n := 0
	for _, l := range lines {
		if l.Status == LineUnmatched {
			n++
		}
	}
	return n
}

// Close computes the finalize balances: ledger balance is the sum of matched
// line amounts, variance is the statement balance minus the ledger balance.
func Close(statementBalance float64, lines []Line) (ledgerBalance, variance float64) {
	for _, l := range lines {
		if l.Status == LineMatched {
			ledgerBalance += l.Amount
		}
	}
	return ledgerBalance, statementBalance - ledgerBalance
}
