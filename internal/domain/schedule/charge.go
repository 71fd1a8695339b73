// Package schedule holds recurring-charge definitions and the due-detection
// rule used by the charge poster.
package schedule

import "time"

// MinChargeDay and MaxChargeDay bound the valid charge-day-of-month range.
// Day 29-31 is disallowed so the rule is unambiguous in short months.
const (
	MinChargeDay = 1
	MaxChargeDay = 28
)

// PeriodFormat is the year-month layout stamped on posted ledger entries
// and used for the once-per-month posting guard.
const PeriodFormat = "2006-01"

// Charge is a recurring monthly billing rule attached to a lease.
//
// LastCharged is the only posting bookkeeping kept here; the ledger entries
// themselves are the posting history.
type Charge struct {
	ID          int64      `json:"id"`
	LeaseID     int64      `json:"lease_id"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	ChargeDay   int        `json:"charge_day"`
	AccountCode string     `json:"account_code"`
	Active      bool       `json:"active"`
	LastCharged *time.Time `json:"last_charged,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsDue reports whether the charge should post today: the charge day has
// arrived and nothing has been posted for the current calendar month yet.
func (c *Charge) IsDue(today time.Time) bool {
	if !c.Active {
		return false
	}
	if c.ChargeDay > today.Day() {
		return false
	}
	if c.LastCharged == nil {
		return true
	}
	return c.LastCharged.Format(PeriodFormat) != today.Format(PeriodFormat)
}
