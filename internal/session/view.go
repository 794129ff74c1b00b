package session

import (
	"context"
	"fmt"

	"eatsplit/internal/core"
)

// Tone classifies a balance for styling.
type Tone string

const (
	ToneOwed  Tone = "owed"  // friend owes the user
	ToneOwing Tone = "owing" // user owes the friend
	ToneEven  Tone = "even"
)

type FriendView struct {
	core.Friend
	Status   string
	Tone     Tone
	Selected bool
}

// SplitView holds the split form as field strings; unset amounts are "".
type SplitView struct {
	FriendName    string
	BillTotal     string
	UserExpense   string
	FriendExpense string
	Payer         core.Payer
}

// View is a point-in-time rendering model of the whole session.
type View struct {
	Mode     Mode
	Friends  []FriendView
	AddForm  AddFriendForm
	Selected *FriendView
	Split    SplitView
}

func (v View) Adding() bool    { return v.Mode == AddingFriend }
func (v View) Splitting() bool { return v.Mode == FriendSelected && v.Selected != nil }

// Snapshot builds the view model from the current state.
func (s *Session) Snapshot(ctx context.Context) (View, error) {
	friends, err := s.ledger.Friends(ctx)
	if err != nil {
		return View{}, fmt.Errorf("snapshot: %w", err)
	}

	v := View{
		Mode:    s.mode,
		AddForm: s.addForm,
		Friends: make([]FriendView, 0, len(friends)),
	}
	selectedID := s.ledger.SelectedID()
	for _, f := range friends {
		fv := FriendView{
			Friend:   f,
			Status:   f.Status(),
			Tone:     toneOf(f.Balance),
			Selected: f.ID == selectedID,
		}
		v.Friends = append(v.Friends, fv)
		if fv.Selected {
			sel := fv
			v.Selected = &sel
		}
	}

	if v.Selected != nil {
		v.Split = SplitView{
			FriendName: v.Selected.Name,
			Payer:      s.split.Payer(),
		}
		if m, ok := s.split.BillTotal(); ok {
			v.Split.BillTotal = m.String()
		}
		if m, ok := s.split.UserExpense(); ok {
			v.Split.UserExpense = m.String()
		}
		if m, ok := s.split.FriendExpense(); ok {
			v.Split.FriendExpense = m.String()
		}
	}
	return v, nil
}

func toneOf(m core.Money) Tone {
	switch {
	case m.Cents > 0:
		return ToneOwed
	case m.Cents < 0:
		return ToneOwing
	default:
		return ToneEven
	}
}
