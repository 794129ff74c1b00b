package core

import (
	"errors"
	"testing"
)

func TestSettlementDelta(t *testing.T) {
	cases := []struct {
		name  string
		bill  Money
		user  Money
		payer Payer
		want  Money
		err   error
	}{
		{"user paid", FromUnits(100), FromUnits(40), PayerUser, FromUnits(60), nil},
		{"friend paid", FromUnits(100), FromUnits(40), PayerFriend, FromUnits(-40), nil},
		{"user paid nothing owed", FromUnits(50), FromUnits(50), PayerUser, Money{}, nil},
		{"friend paid zero expense", FromUnits(50), Money{}, PayerFriend, Money{}, nil},
		{"expense over bill", FromUnits(10), FromUnits(11), PayerUser, Money{}, ErrExpenseExceedsBill},
		{"bad payer", FromUnits(10), FromUnits(1), Payer("bank"), Money{}, ErrInvalidPayer},
		{"negative", FromUnits(-1), Money{}, PayerUser, Money{}, ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SettlementDelta(tc.bill, tc.user, tc.payer)
			if !errors.Is(err, tc.err) {
				t.Fatalf("err = %v, want %v", err, tc.err)
			}
			if got != tc.want {
				t.Fatalf("delta = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParsePayer(t *testing.T) {
	for in, want := range map[string]Payer{
		"user":   PayerUser,
		"self":   PayerUser,
		" You ":  PayerUser,
		"friend": PayerFriend,
	} {
		got, err := ParsePayer(in)
		if err != nil || got != want {
			t.Fatalf("ParsePayer(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParsePayer("nobody"); !errors.Is(err, ErrInvalidPayer) {
		t.Fatalf("expected ErrInvalidPayer, got %v", err)
	}
}

func TestFriendStatus(t *testing.T) {
	cases := []struct {
		balance Money
		want    string
	}{
		{FromUnits(20), "Sarah owes you $20"},
		{FromUnits(-7), "you owe Sarah $7"},
		{Money{Cents: -1250}, "you owe Sarah $12.5"},
		{Money{}, "you and Sarah are even"},
	}
	for _, tc := range cases {
		f := Friend{ID: "1", Name: "Sarah", Image: "x", Balance: tc.balance}
		if got := f.Status(); got != tc.want {
			t.Errorf("Status() = %q, want %q", got, tc.want)
		}
	}
}

func TestFriendValidate(t *testing.T) {
	good := Friend{ID: "1", Name: "Clark", Image: DefaultAvatarBase}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []Friend{
		{ID: "", Name: "a", Image: "b"},
		{ID: "1", Name: "  ", Image: "b"},
		{ID: "1", Name: "a", Image: ""},
	}
	for i, f := range bads {
		if err := f.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestAvatarRef(t *testing.T) {
	if got := AvatarRef(DefaultAvatarBase, "abc"); got != "https://i.pravatar.cc/48?=abc" {
		t.Fatalf("AvatarRef = %q", got)
	}
	if got := AvatarRef("https://x.test/a?size=48", "abc"); got != "https://x.test/a?size=48&=abc" {
		t.Fatalf("AvatarRef with query = %q", got)
	}
}
