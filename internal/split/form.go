// Package split holds the state of the split-bill form and derives the
// settlement delta from it.
package split

import (
	"strings"

	"eatsplit/internal/core"
)

// Form is the split-bill form. Unset amounts are distinct from zero: an empty
// field blocks submission, a zero expense does not.
type Form struct {
	bill    core.Money
	billSet bool
	user    core.Money
	userSet bool
	payer   core.Payer
}

func NewForm() Form {
	return Form{payer: core.PayerUser}
}

// Reset clears both amounts and sets the payer back to the user.
func (f *Form) Reset() {
	*f = NewForm()
}

func (f Form) BillTotal() (core.Money, bool)   { return f.bill, f.billSet }
func (f Form) UserExpense() (core.Money, bool) { return f.user, f.userSet }

func (f Form) Payer() core.Payer {
	if f.payer == "" {
		return core.PayerUser
	}
	return f.payer
}

// SetBillTotal sets the bill total. Negative values are ignored.
func (f *Form) SetBillTotal(m core.Money) {
	if m.Cents < 0 {
		return
	}
	f.bill, f.billSet = m, true
}

// SetBillTotalInput applies a raw field value. An empty string unsets the
// field; unparseable input is ignored and reported as false.
func (f *Form) SetBillTotalInput(s string) bool {
	if strings.TrimSpace(s) == "" {
		f.bill, f.billSet = core.Money{}, false
		return true
	}
	m, err := core.ParseAmount(s)
	if err != nil {
		return false
	}
	f.SetBillTotal(m)
	return true
}

// SetUserExpense sets the user's share. A value larger than the current bill
// total is refused and the previous value stays: the field silently clamps
// rather than reporting an error. With no bill total yet, any non-zero
// expense is refused the same way.
func (f *Form) SetUserExpense(m core.Money) bool {
	if m.Cents < 0 {
		return false
	}
	if m.Cents > f.bill.Cents {
		return false
	}
	f.user, f.userSet = m, true
	return true
}

// SetUserExpenseInput applies a raw field value with the same clamp.
func (f *Form) SetUserExpenseInput(s string) bool {
	if strings.TrimSpace(s) == "" {
		f.user, f.userSet = core.Money{}, false
		return true
	}
	m, err := core.ParseAmount(s)
	if err != nil {
		return false
	}
	return f.SetUserExpense(m)
}

// SetPayer changes who paid; unknown values are ignored.
func (f *Form) SetPayer(p core.Payer) {
	if p.Validate() != nil {
		return
	}
	f.payer = p
}

func (f *Form) SetPayerInput(s string) {
	if p, err := core.ParsePayer(s); err == nil {
		f.payer = p
	}
}

// FriendExpense is the read-only friend's share, bill total minus the
// user's expense. It is unavailable until a bill total is set.
func (f Form) FriendExpense() (core.Money, bool) {
	if !f.billSet {
		return core.Money{}, false
	}
	return f.bill.Sub(f.user), true
}

// Delta returns the balance change to apply to the selected friend, or
// core.ErrIncomplete when a required amount is missing. A zero bill counts
// as missing.
func (f Form) Delta() (core.Money, error) {
	if !f.billSet || f.bill.Cents == 0 || !f.userSet {
		return core.Money{}, core.ErrIncomplete
	}
	return core.SettlementDelta(f.bill, f.user, f.Payer())
}
