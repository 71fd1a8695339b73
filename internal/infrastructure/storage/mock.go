package storage

import (
	"time"

	"rentdesk-backend/internal/domain/ledger"
	"rentdesk-backend/internal/domain/reconcile"
	"rentdesk-backend/internal/domain/schedule"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps and slices, making tests fast and isolated.
type MockRepository struct {
	properties map[int64]*Property
	units      map[int64]*Unit
	leases     map[int64]*Lease
	accounts   map[int64]*BankAccount
	entries    []*ledger.Entry
	recons     map[int64]*reconcile.Reconciliation
	lines      map[int64]*reconcile.Line
	charges    map[int64]*schedule.Charge

	nextID map[string]int64

	// Error injection for testing error paths
	CreateEntriesErr error
	PostChargeErr    error
	CreateReconErr   error

	// Hooks for test assertions
	PostChargeCalled    bool
	LastPostedEntries   []*ledger.Entry
	CreateEntriesCalled bool
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		properties: make(map[int64]*Property),
		units:      make(map[int64]*Unit),
		leases:     make(map[int64]*Lease),
		accounts:   make(map[int64]*BankAccount),
		recons:     make(map[int64]*reconcile.Reconciliation),
		lines:      make(map[int64]*reconcile.Line),
		charges:    make(map[int64]*schedule.Charge),
		nextID:     make(map[string]int64),
	}
}

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

func (m *MockRepository) next(kind string) int64 {
	m.nextID[kind]++
	return m.nextID[kind]
}

// --- Properties and units ---

func (m *MockRepository) CreateProperty(p *Property) error {
	p.ID = m.next("property")
	p.CreatedAt = time.Now()
	copied := *p
	m.properties[p.ID] = &copied
	return nil
}

func (m *MockRepository) GetProperty(id int64) (*Property, error) {
	p, ok := m.properties[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (m *MockRepository) ListProperties() ([]*Property, error) {
	var out []*Property
	for id := int64(1); id <= m.nextID["property"]; id++ {
		if p, ok := m.properties[id]; ok {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockRepository) UpdateProperty(p *Property) error {
	if existing, ok := m.properties[p.ID]; ok {
		copied := *p
		copied.CreatedAt = existing.CreatedAt
		m.properties[p.ID] = &copied
	}
	return nil
}

func (m *MockRepository) DeleteProperty(id int64) error {
	delete(m.properties, id)
	for uid, u := range m.units {
		if u.PropertyID == id {
			delete(m.units, uid)
		}
	}
	return nil
}

func (m *MockRepository) CreateUnit(u *Unit) error {
	u.ID = m.next("unit")
	u.CreatedAt = time.Now()
	copied := *u
	m.units[u.ID] = &copied
	return nil
}

func (m *MockRepository) GetUnit(id int64) (*Unit, error) {
	u, ok := m.units[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (m *MockRepository) ListUnits(propertyID int64) ([]*Unit, error) {
	var out []*Unit
	for id := int64(1); id <= m.nextID["unit"]; id++ {
		if u, ok := m.units[id]; ok && u.PropertyID == propertyID {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockRepository) UpdateUnit(u *Unit) error {
	if _, ok := m.units[u.ID]; ok {
		copied := *u
		m.units[u.ID] = &copied
	}
	return nil
}

func (m *MockRepository) DeleteUnit(id int64) error {
	delete(m.units, id)
	return nil
}

// --- Leases ---

func (m *MockRepository) CreateLease(l *Lease) error {
	l.ID = m.next("lease")
	l.CreatedAt = time.Now()
	if l.Status == "" {
		l.Status = LeaseStatusActive
	}
	copied := *l
	m.leases[l.ID] = &copied
	return nil
}

func (m *MockRepository) GetLease(id int64) (*Lease, error) {
	l, ok := m.leases[id]
	if !ok {
		return nil, nil
	}
	copied := *l
	return &copied, nil
}

func (m *MockRepository) ListLeases() ([]*Lease, error) {
	var out []*Lease
	for id := int64(1); id <= m.nextID["lease"]; id++ {
		if l, ok := m.leases[id]; ok {
			copied := *l
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockRepository) UpdateLease(l *Lease) error {
	if _, ok := m.leases[l.ID]; ok {
		copied := *l
		m.leases[l.ID] = &copied
	}
	return nil
}

func (m *MockRepository) DeleteLease(id int64) error {
	delete(m.leases, id)
	for cid, c := range m.charges {
		if c.LeaseID == id {
			delete(m.charges, cid)
		}
	}
	return nil
}

// --- Bank accounts ---

func (m *MockRepository) CreateBankAccount(a *BankAccount) error {
	a.ID = m.next("account")
	a.CreatedAt = time.Now()
	copied := *a
	m.accounts[a.ID] = &copied
	return nil
}

func (m *MockRepository) GetBankAccount(id int64) (*BankAccount, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (m *MockRepository) ListBankAccounts() ([]*BankAccount, error) {
	var out []*BankAccount
	for id := int64(1); id <= m.nextID["account"]; id++ {
		if a, ok := m.accounts[id]; ok {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

// --- Ledger entries ---

func (m *MockRepository) CreateEntries(entries []*ledger.Entry) error {
	m.CreateEntriesCalled = true
	if m.CreateEntriesErr != nil {
		return m.CreateEntriesErr
	}
	for _, e := range entries {
		e.ID = m.next("entry")
		e.CreatedAt = time.Now()
		if e.Status == "" {
			e.Status = ledger.EntryStatusPosted
		}
		copied := *e
		m.entries = append(m.entries, &copied)
	}
	return nil
}

func (m *MockRepository) GetEntry(id int64) (*ledger.Entry, error) {
	for _, e := range m.entries {
		if e.ID == id {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) ListEntries(filters LedgerFilters) ([]*ledger.Entry, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = 100
	}
	var out []*ledger.Entry
	for _, e := range m.entries {
		if filters.AccountCode != "" && e.AccountCode != filters.AccountCode {
			continue
		}
		if filters.LeaseID != 0 && (e.LeaseID == nil || *e.LeaseID != filters.LeaseID) {
			continue
		}
		copied := *e
		out = append(out, &copied)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *MockRepository) ListUnlinkedEntries(accountCode string) ([]*ledger.Entry, error) {
	linked := make(map[int64]bool)
	for _, l := range m.lines {
		if l.MatchedEntryID != nil {
			linked[*l.MatchedEntryID] = true
		}
	}
	var out []*ledger.Entry
	for _, e := range m.entries {
		if e.AccountCode != accountCode || e.Status != ledger.EntryStatusPosted {
			continue
		}
		if linked[e.ID] {
			continue
		}
		copied := *e
		out = append(out, &copied)
	}
	return out, nil
}

// --- Reconciliations ---

func (m *MockRepository) CreateReconciliation(rec *reconcile.Reconciliation) error {
	if m.CreateReconErr != nil {
		return m.CreateReconErr
	}
	rec.ID = m.next("recon")
	rec.CreatedAt = time.Now()
	for i := range rec.Lines {
		rec.Lines[i].ID = m.next("line")
		rec.Lines[i].ReconciliationID = rec.ID
		copied := rec.Lines[i]
		m.lines[copied.ID] = &copied
	}
	copied := *rec
	copied.Lines = nil
	m.recons[rec.ID] = &copied
	return nil
}

func (m *MockRepository) GetReconciliation(id int64) (*reconcile.Reconciliation, error) {
	rec, ok := m.recons[id]
	if !ok {
		return nil, nil
	}
	copied := *rec
	for lid := int64(1); lid <= m.nextID["line"]; lid++ {
		if l, ok := m.lines[lid]; ok && l.ReconciliationID == id {
			copied.Lines = append(copied.Lines, *l)
		}
	}
	return &copied, nil
}

func (m *MockRepository) ListReconciliations(bankAccountID int64) ([]*reconcile.Reconciliation, error) {
	var out []*reconcile.Reconciliation
	for id := m.nextID["recon"]; id >= 1; id-- {
		if rec, ok := m.recons[id]; ok && rec.BankAccountID == bankAccountID {
			copied := *rec
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockRepository) GetLine(id int64) (*reconcile.Line, error) {
	l, ok := m.lines[id]
	if !ok {
		return nil, nil
	}
	copied := *l
	return &copied, nil
}

func (m *MockRepository) HasInProgress(bankAccountID int64) (bool, error) {
	for _, rec := range m.recons {
		if rec.BankAccountID == bankAccountID && rec.Status == reconcile.StatusInProgress {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRepository) MatchLine(lineID, entryID int64) error {
	for _, l := range m.lines {
		if l.MatchedEntryID != nil && *l.MatchedEntryID == entryID {
			return ErrEntryAlreadyLinked
		}
	}
	l, ok := m.lines[lineID]
	if !ok || l.Status != reconcile.LineUnmatched {
		return ErrLineStateChanged
	}
	id := entryID
	l.Status = reconcile.LineMatched
	l.MatchedEntryID = &id
	return nil
}

func (m *MockRepository) SetLineStatus(lineID int64, from, to reconcile.LineStatus) error {
	l, ok := m.lines[lineID]
	if !ok || l.Status != from {
		return ErrLineStateChanged
	}
	l.Status = to
	l.MatchedEntryID = nil
	return nil
}

func (m *MockRepository) FinalizeReconciliation(id int64, ledgerBalance, variance float64, finalizedAt time.Time) error {
	rec, ok := m.recons[id]
	if !ok || rec.Status != reconcile.StatusInProgress {
		return ErrAlreadyFinalized
	}
	rec.Status = reconcile.StatusFinalized
	rec.LedgerBalance = &ledgerBalance
	rec.Variance = &variance
	rec.FinalizedAt = &finalizedAt
	return nil
}

// --- Scheduled charges ---

func (m *MockRepository) CreateCharge(c *schedule.Charge) error {
	c.ID = m.next("charge")
	c.CreatedAt = time.Now()
	copied := *c
	m.charges[c.ID] = &copied
	return nil
}

func (m *MockRepository) GetCharge(id int64) (*schedule.Charge, error) {
	c, ok := m.charges[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (m *MockRepository) ListCharges(leaseID int64) ([]*schedule.Charge, error) {
	var out []*schedule.Charge
	for id := int64(1); id <= m.nextID["charge"]; id++ {
		if c, ok := m.charges[id]; ok && c.LeaseID == leaseID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockRepository) ListActiveCharges(leaseID *int64) ([]*schedule.Charge, error) {
	var out []*schedule.Charge
	for id := int64(1); id <= m.nextID["charge"]; id++ {
		c, ok := m.charges[id]
		if !ok || !c.Active {
			continue
		}
		if leaseID != nil && c.LeaseID != *leaseID {
			continue
		}
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (m *MockRepository) UpdateCharge(c *schedule.Charge) error {
	if existing, ok := m.charges[c.ID]; ok {
		copied := *c
		copied.LastCharged = existing.LastCharged
		copied.CreatedAt = existing.CreatedAt
		m.charges[c.ID] = &copied
	}
	return nil
}

func (m *MockRepository) DeleteCharge(id int64) error {
	delete(m.charges, id)
	return nil
}

func (m *MockRepository) ResetChargeLastCharged(id int64) error {
	if c, ok := m.charges[id]; ok {
		c.LastCharged = nil
	}
	return nil
}

func (m *MockRepository) PostCharge(chargeID int64, postedAt time.Time, entries []*ledger.Entry) (bool, error) {
	m.PostChargeCalled = true
	if m.PostChargeErr != nil {
		return false, m.PostChargeErr
	}
	c, ok := m.charges[chargeID]
	if !ok || !c.Active {
		return false, nil
	}
	period := postedAt.Format(schedule.PeriodFormat)
	if c.LastCharged != nil && c.LastCharged.Format(schedule.PeriodFormat) == period {
		return false, nil
	}
	t := postedAt
	c.LastCharged = &t

	m.LastPostedEntries = entries
	return true, m.CreateEntries(entries)
}
