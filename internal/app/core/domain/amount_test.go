package domain

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want Amount
		err  error
	}{
		{"0", 0, nil},
		{"1", 10000, nil},
		{"12.5", 125000, nil},
		{"0.0001", 1, nil},
		{"-3.25", -32500, nil},
		{"0.00001", 0, ErrInvalidAmount},
		{"abc", 0, ErrInvalidAmount},
		{"", 0, ErrInvalidAmount},
		{"99999999999999999999999", 0, ErrInvalidAmount},
	}
	for _, c := range cases {
		got, err := ParseAmount(c.in)
		if !errors.Is(err, c.err) {
			t.Fatalf("ParseAmount(%q) err=%v want %v", c.in, err, c.err)
		}
		if err == nil && got != c.want {
			t.Fatalf("ParseAmount(%q)=%d want %d", c.in, got, c.want)
		}
	}
}

func TestAmountString(t *testing.T) {
	if s := Amount(125000).String(); s != "12.5000" {
		t.Fatalf("String()=%q want 12.5000", s)
	}
	if s := Amount(-1).String(); s != "-0.0001" {
		t.Fatalf("String()=%q want -0.0001", s)
	}
	if a := MustParseAmount(Amount(987654321).String()); a != 987654321 {
		t.Fatalf("parse(String()) = %d", a)
	}
}
