package core

import (
	"errors"
	"fmt"
	"strings"
)

const (
	PayerUser   Payer = "user"
	PayerFriend Payer = "friend"
)

// DefaultAvatarBase is the avatar service used when the user keeps the
// prefilled image field.
const DefaultAvatarBase = "https://i.pravatar.cc/48"

type (
	Payer string

	Money struct {
		Cents int64
	}

	Friend struct {
		ID      string
		Name    string
		Image   string // Avatar reference, not validated
		Balance Money  // Positive: friend owes the user
	}
)

var (
	ErrEmptyName          = errors.New("empty friend name")
	ErrEmptyImage         = errors.New("empty image reference")
	ErrFriendNotFound     = errors.New("friend not found")
	ErrNotSelected        = errors.New("friend is not selected")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrIncomplete         = errors.New("bill total and user expense are required")
	ErrExpenseExceedsBill = errors.New("user expense exceeds bill total")
	ErrInvalidPayer       = errors.New("invalid payer")
)

// ParsePayer accepts "user" (or its alias "self") and "friend".
func ParsePayer(s string) (Payer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "self", "you":
		return PayerUser, nil
	case "friend":
		return PayerFriend, nil
	default:
		return "", ErrInvalidPayer
	}
}

func (p Payer) Validate() error {
	switch p {
	case PayerUser, PayerFriend:
		return nil
	default:
		return ErrInvalidPayer
	}
}

// Validate checks the presence of the fields a friend needs to be listed.
func (f Friend) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return errors.New("empty friend id")
	}
	if strings.TrimSpace(f.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(f.Image) == "" {
		return ErrEmptyImage
	}
	return nil
}

// Status returns the one-line balance summary shown next to a friend.
func (f Friend) Status() string {
	switch {
	case f.Balance.Cents > 0:
		return fmt.Sprintf("%s owes you $%s", f.Name, f.Balance)
	case f.Balance.Cents < 0:
		return fmt.Sprintf("you owe %s $%s", f.Name, f.Balance.Abs())
	default:
		return fmt.Sprintf("you and %s are even", f.Name)
	}
}

// AvatarRef derives the stored image reference from the base the user typed,
// tagging it with the friend id so every friend gets a distinct avatar.
func AvatarRef(base, id string) string {
	base = strings.TrimSpace(base)
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "=" + id
}

// SettlementDelta is the signed balance change for the friend after a split.
// When the user paid, the friend owes their share; when the friend paid, the
// user owes their own expense.
func SettlementDelta(bill, userExpense Money, payer Payer) (Money, error) {
	if bill.Cents < 0 || userExpense.Cents < 0 {
		return Money{}, ErrInvalidAmount
	}
	if userExpense.Cents > bill.Cents {
		return Money{}, ErrExpenseExceedsBill
	}
	switch payer {
	case PayerUser:
		return bill.Sub(userExpense), nil
	case PayerFriend:
		return userExpense.Neg(), nil
	default:
		return Money{}, ErrInvalidPayer
	}
}
