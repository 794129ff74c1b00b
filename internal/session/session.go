// Package session drives the ledger from user events.
//
// The view state is a single Mode rather than independent flags, so "adding
// a friend" and "splitting a bill with a selected friend" can never be shown
// at the same time. Invalid submissions are rejected silently: the event
// reports Rejected, state is left as it was, and no message is produced.
package session

import (
	"context"
	"errors"
	"fmt"

	"eatsplit/internal/core"
	"eatsplit/internal/ledger"
	"eatsplit/internal/split"
)

type Mode int

const (
	Idle Mode = iota
	AddingFriend
	FriendSelected
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case AddingFriend:
		return "adding_friend"
	case FriendSelected:
		return "friend_selected"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Outcome tells an adapter what an event did.
type Outcome int

const (
	Ignored Outcome = iota // not applicable in the current mode
	Applied
	Rejected // input incomplete or invalid; nothing changed
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Rejected:
		return "rejected"
	default:
		return "ignored"
	}
}

// Form names used when reporting rejections.
const (
	FormAddFriend = "add_friend"
	FormSplitBill = "split_bill"
	FormSelect    = "select"
)

// Observer is told about submitted splits and rejected submissions.
type Observer interface {
	SplitSubmitted(payer core.Payer)
	Rejected(form string)
}

// AddFriendForm holds the add-friend field values.
type AddFriendForm struct {
	Name  string
	Image string
}

func newAddFriendForm() AddFriendForm {
	return AddFriendForm{Image: core.DefaultAvatarBase}
}

type Session struct {
	ledger   *ledger.Ledger
	observer Observer

	mode    Mode
	addForm AddFriendForm
	split   split.Form
}

func New(l *ledger.Ledger, observer Observer) *Session {
	return &Session{
		ledger:   l,
		observer: observer,
		mode:     Idle,
		addForm:  newAddFriendForm(),
		split:    split.NewForm(),
	}
}

func (s *Session) Mode() Mode { return s.mode }

func (s *Session) reject(form string) Outcome {
	if s.observer != nil {
		s.observer.Rejected(form)
	}
	return Rejected
}

// ToggleAddFriend is the "Add friend" / "Close" button.
func (s *Session) ToggleAddFriend(ctx context.Context) Outcome {
	if s.mode == AddingFriend {
		return s.CloseAddFriend(ctx)
	}
	return s.OpenAddFriend(ctx)
}

// OpenAddFriend shows the add-friend form. Any selection is dropped.
func (s *Session) OpenAddFriend(_ context.Context) Outcome {
	if s.mode == AddingFriend {
		return Ignored
	}
	if s.mode == FriendSelected {
		s.ledger.ClearSelection()
		s.split.Reset()
	}
	s.addForm = newAddFriendForm()
	s.mode = AddingFriend
	return Applied
}

// CloseAddFriend hides the add-friend form and discards what was typed.
func (s *Session) CloseAddFriend(_ context.Context) Outcome {
	if s.mode != AddingFriend {
		return Ignored
	}
	s.addForm = newAddFriendForm()
	s.mode = Idle
	return Applied
}

func (s *Session) SetFriendName(v string) {
	if s.mode == AddingFriend {
		s.addForm.Name = v
	}
}

func (s *Session) SetFriendImage(v string) {
	if s.mode == AddingFriend {
		s.addForm.Image = v
	}
}

// SubmitFriend adds the friend described by the form. A blank field keeps
// the form open with its values untouched.
func (s *Session) SubmitFriend(ctx context.Context) (Outcome, error) {
	if s.mode != AddingFriend {
		return Ignored, nil
	}
	_, err := s.ledger.AddFriend(ctx, s.addForm.Name, s.addForm.Image)
	switch {
	case errors.Is(err, core.ErrEmptyName), errors.Is(err, core.ErrEmptyImage):
		return s.reject(FormAddFriend), nil
	case err != nil:
		return Ignored, err
	}
	s.addForm = newAddFriendForm()
	s.mode = Idle
	return Applied, nil
}

// Select toggles the selection of friendID. Selecting closes the add-friend
// form; switching to another friend starts a fresh split form.
func (s *Session) Select(ctx context.Context, friendID string) (Outcome, error) {
	previous := s.ledger.SelectedID()
	f, err := s.ledger.ToggleSelect(ctx, friendID)
	if errors.Is(err, core.ErrFriendNotFound) {
		return s.reject(FormSelect), nil
	}
	if err != nil {
		return Ignored, err
	}

	if s.mode == AddingFriend {
		s.addForm = newAddFriendForm()
	}
	if f == nil {
		s.split.Reset()
		s.mode = Idle
		return Applied, nil
	}
	if f.ID != previous {
		s.split.Reset()
	}
	s.mode = FriendSelected
	return Applied, nil
}

// SetBillTotal applies the raw bill field.
// It reports false when the value could not be parsed.
func (s *Session) SetBillTotal(v string) bool {
	if s.mode != FriendSelected {
		return false
	}
	return s.split.SetBillTotalInput(v)
}

// SetUserExpense applies the raw expense field. It reports false when the
// value was refused by the clamp and the previous value kept.
func (s *Session) SetUserExpense(v string) bool {
	if s.mode != FriendSelected {
		return false
	}
	return s.split.SetUserExpenseInput(v)
}

func (s *Session) SetPayer(v string) {
	if s.mode == FriendSelected {
		s.split.SetPayerInput(v)
	}
}

// TogglePayer flips between the user and the friend.
func (s *Session) TogglePayer() {
	if s.mode != FriendSelected {
		return
	}
	if s.split.Payer() == core.PayerUser {
		s.split.SetPayer(core.PayerFriend)
	} else {
		s.split.SetPayer(core.PayerUser)
	}
}

// SubmitSplit settles the selected friend with the form's delta, then
// returns to Idle. Incomplete input leaves everything as it was.
func (s *Session) SubmitSplit(ctx context.Context) (Outcome, error) {
	if s.mode != FriendSelected {
		return Ignored, nil
	}
	delta, err := s.split.Delta()
	if err != nil {
		return s.reject(FormSplitBill), nil
	}
	_, err = s.ledger.Settle(ctx, s.ledger.SelectedID(), delta)
	if errors.Is(err, core.ErrNotSelected) {
		return s.reject(FormSplitBill), nil
	}
	if err != nil {
		return Ignored, err
	}
	if s.observer != nil {
		s.observer.SplitSubmitted(s.split.Payer())
	}
	s.split.Reset()
	s.mode = Idle
	return Applied, nil
}

// CancelSplit drops the selection without settling.
func (s *Session) CancelSplit(_ context.Context) Outcome {
	if s.mode != FriendSelected {
		return Ignored
	}
	s.ledger.ClearSelection()
	s.split.Reset()
	s.mode = Idle
	return Applied
}
