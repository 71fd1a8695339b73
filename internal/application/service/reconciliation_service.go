package service

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rentdesk-backend/internal/domain/ledger"
	"rentdesk-backend/internal/domain/reconcile"
	"rentdesk-backend/internal/domain/statement"
	"rentdesk-backend/internal/infrastructure/storage"
)

// ReconciliationService runs the bank-statement reconciliation workflow.
type ReconciliationService struct {
	repo    storage.Repository
	matcher *reconcile.Matcher
	logger  *slog.Logger
}

// NewReconciliationService creates a reconciliation service.
func NewReconciliationService(repo storage.Repository, logger *slog.Logger) *ReconciliationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconciliationService{
		repo:    repo,
		matcher: reconcile.NewMatcher(reconcile.DefaultConfig()),
		logger:  logger,
	}
}

// IngestInput holds the parameters of a statement upload.
type IngestInput struct {
	BankAccountID    int64
	PeriodStart      time.Time
	PeriodEnd        time.Time
	StatementBalance float64
	Notes            string
	File             io.Reader
}

// IngestResult is the created reconciliation plus its summary counts and any
// statement rows that failed to parse.
type IngestResult struct {
	Reconciliation *reconcile.Reconciliation `json:"reconciliation"`
	Summary        reconcile.Summary         `json:"summary"`
	RowErrors      []statement.RowError      `json:"row_errors,omitempty"`
}

// Ingest parses an uploaded statement, creates the reconciliation with one
// line per CSV row, and runs the automatic matching pass.
func (s *ReconciliationService) Ingest(in IngestInput) (*IngestResult, error) {
	account, err := s.repo.GetBankAccount(in.BankAccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, &NotFoundError{Resource: "bank account"}
	}

	if in.PeriodEnd.Before(in.PeriodStart) {
		return nil, validationf("period end %s is before period start %s",
			in.PeriodEnd.Format("2006-01-02"), in.PeriodStart.Format("2006-01-02"))
	}

	open, err := s.repo.HasInProgress(in.BankAccountID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, conflictf("an in-progress reconciliation already exists for this bank account")
	}

	parsed, err := statement.Parse(in.File)
	if err != nil {
		if errors.Is(err, statement.ErrEmptyFile) || errors.Is(err, statement.ErrNoParseableRows) {
			return nil, &ValidationError{Message: err.Error()}
		}
		return nil, &ValidationError{Message: "cannot parse statement: " + err.Error()}
	}

	lines := make([]reconcile.Line, 0, len(parsed.Rows))
	for _, row := range parsed.Rows {
		lines = append(lines, reconcile.Line{
			Date:        row.Date,
			Description: row.Description,
			Amount:      row.Amount,
			Status:      reconcile.LineUnmatched,
		})
	}

	candidates, err := s.repo.ListUnlinkedEntries(account.AccountCode)
	if err != nil {
		return nil, err
	}
	matched := s.matcher.Run(lines, candidates, nil)

	rec := &reconcile.Reconciliation{
		BankAccountID:    in.BankAccountID,
		Status:           reconcile.StatusInProgress,
		PeriodStart:      in.PeriodStart,
		PeriodEnd:        in.PeriodEnd,
		StatementBalance: in.StatementBalance,
		Notes:            in.Notes,
		ImportRef:        uuid.New().String(),
		Lines:            lines,
	}
	if err := s.repo.CreateReconciliation(rec); err != nil {
		return nil, err
	}

	s.logger.Info("statement ingested",
		"reconciliation_id", rec.ID,
		"bank_account_id", in.BankAccountID,
		"lines", len(lines),
		"auto_matched", matched,
		"row_errors", len(parsed.RowErrors))

	return &IngestResult{
		Reconciliation: rec,
		Summary:        reconcile.Summarize(rec.Lines),
		RowErrors:      parsed.RowErrors,
	}, nil
}

// View is a full reconciliation with its summary and the remaining
// unmatched ledger entries in the account scope (candidates for manual
// matching).
type View struct {
	Reconciliation   *reconcile.Reconciliation `json:"reconciliation"`
	Summary          reconcile.Summary         `json:"summary"`
	UnmatchedEntries []*ledger.Entry           `json:"unmatched_entries"`
}

// Get returns the full reconciliation view.
func (s *ReconciliationService) Get(id int64) (*View, error) {
	rec, err := s.repo.GetReconciliation(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &NotFoundError{Resource: "reconciliation"}
	}

	account, err := s.repo.GetBankAccount(rec.BankAccountID)
	if err != nil {
		return nil, err
	}

	var unmatched []*ledger.Entry
	if account != nil && rec.Status == reconcile.StatusInProgress {
		unmatched, err = s.repo.ListUnlinkedEntries(account.AccountCode)
		if err != nil {
			return nil, err
		}
	}

	return &View{
		Reconciliation:   rec,
		Summary:          reconcile.Summarize(rec.Lines),
		UnmatchedEntries: unmatched,
	}, nil
}

// List returns reconciliation summaries for a bank account.
func (s *ReconciliationService) List(bankAccountID int64) ([]*reconcile.Reconciliation, error) {
	return s.repo.ListReconciliations(bankAccountID)
}

// loadLine fetches the reconciliation and one of its lines, rejecting
// finalized reconciliations and ids that do not belong together.
func (s *ReconciliationService) loadLine(reconID, lineID int64) (*reconcile.Reconciliation, *reconcile.Line, error) {
	rec, err := s.repo.GetReconciliation(reconID)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, &NotFoundError{Resource: "reconciliation"}
	}
	if rec.Status == reconcile.StatusFinalized {
		return nil, nil, conflictf("reconciliation is finalized")
	}

	line, err := s.repo.GetLine(lineID)
	if err != nil {
		return nil, nil, err
	}
	if line == nil || line.ReconciliationID != reconID {
		return nil, nil, &NotFoundError{Resource: "reconciliation line"}
	}
	return rec, line, nil
}

// Match manually links an UNMATCHED line to any unlinked ledger entry. No
// amount check: the UI surfaces equal-amount candidates as a hint only.
func (s *ReconciliationService) Match(reconID, lineID, entryID int64) error {
	_, line, err := s.loadLine(reconID, lineID)
	if err != nil {
		return err
	}
	if !line.Status.CanTransition(reconcile.LineMatched) {
		return conflictf("line is %s, only unmatched lines can be matched", line.Status)
	}

	entry, err := s.repo.GetEntry(entryID)
	if err != nil {
		return err
	}
	if entry == nil {
		return &NotFoundError{Resource: "ledger entry"}
	}

	err = s.repo.MatchLine(lineID, entryID)
	switch {
	case errors.Is(err, storage.ErrEntryAlreadyLinked):
		return conflictf("ledger entry is already matched to another line")
	case errors.Is(err, storage.ErrLineStateChanged):
		return conflictf("line is no longer unmatched")
	}
	return err
}

// Unmatch reverts a MATCHED line to UNMATCHED and clears the entry link.
func (s *ReconciliationService) Unmatch(reconID, lineID int64) error {
	_, line, err := s.loadLine(reconID, lineID)
	if err != nil {
		return err
	}
	if line.Status != reconcile.LineMatched {
		return conflictf("line is %s, only matched lines can be unmatched", line.Status)
	}

	err = s.repo.SetLineStatus(lineID, reconcile.LineMatched, reconcile.LineUnmatched)
	if errors.Is(err, storage.ErrLineStateChanged) {
		return conflictf("line is no longer matched")
	}
	return err
}

// Exclude actions.
const (
	ActionExclude = "exclude"
	ActionInclude = "include"
)

// Exclude toggles a line between UNMATCHED and EXCLUDED. Excluded lines do
// not count toward the finalize gate. A MATCHED line must be unmatched
// first.
func (s *ReconciliationService) Exclude(reconID, lineID int64, action string) error {
	_, line, err := s.loadLine(reconID, lineID)
	if err != nil {
		return err
	}

	var from, to reconcile.LineStatus
	switch action {
	case ActionExclude:
		from, to = reconcile.LineUnmatched, reconcile.LineExcluded
	case ActionInclude:
		from, to = reconcile.LineExcluded, reconcile.LineUnmatched
	default:
		return validationf("unknown action %q, expected %q or %q", action, ActionExclude, ActionInclude)
	}

	if line.Status != from || !line.Status.CanTransition(to) {
		return conflictf("cannot %s a %s line", action, line.Status)
	}

	err = s.repo.SetLineStatus(lineID, from, to)
	if errors.Is(err, storage.ErrLineStateChanged) {
		return conflictf("line status changed concurrently")
	}
	return err
}

// Finalize closes the reconciliation once every line is MATCHED or
// EXCLUDED. Computes the ledger balance and variance, stamps the finalize
// time, and flips the status one-way.
func (s *ReconciliationService) Finalize(id int64) (*reconcile.Reconciliation, error) {
	rec, err := s.repo.GetReconciliation(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &NotFoundError{Resource: "reconciliation"}
	}
	if rec.Status == reconcile.StatusFinalized {
		return nil, conflictf("reconciliation is already finalized")
	}

	if n := reconcile.Unresolved(rec.Lines); n > 0 {
		return nil, &PreconditionError{Message: "unresolved lines remain"}
	}

	ledgerBalance, variance := reconcile.Close(rec.StatementBalance, rec.Lines)
	finalizedAt := time.Now().UTC()

	err = s.repo.FinalizeReconciliation(id, ledgerBalance, variance, finalizedAt)
	if errors.Is(err, storage.ErrAlreadyFinalized) {
		return nil, conflictf("reconciliation is already finalized")
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("reconciliation finalized",
		"reconciliation_id", id,
		"ledger_balance", ledgerBalance,
		"variance", variance)

	return s.repo.GetReconciliation(id)
}
