package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half away from zero
		{" 2.50 ", 250, true},
		{"0", 0, true},
		{"100", 10000, true},
		{"-1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"1e2", 10000, true},
		{"0.000000000000000001", 0, true},
		{"1e-20000000", 0, false},
		{"1e20000000", 0, false},
		{"0.0000000000000000001", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		m    Money
		want string
	}{
		{FromUnits(7), "7"},
		{Money{Cents: 1250}, "12.5"},
		{Money{Cents: -325}, "-3.25"},
		{Money{}, "0"},
	}
	for _, tc := range cases {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tc.m.Cents, got, tc.want)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := FromUnits(-7)
	b := FromUnits(30)
	if got := a.Add(b); got != FromUnits(23) {
		t.Fatalf("Add = %v, want 23", got)
	}
	if got := a.Abs(); got != FromUnits(7) {
		t.Fatalf("Abs = %v, want 7", got)
	}
	if got := b.Sub(a).Neg(); got != FromUnits(-37) {
		t.Fatalf("Sub/Neg = %v, want -37", got)
	}
}
