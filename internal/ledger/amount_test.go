package ledger

import (
	"errors"
	"testing"
)

func TestParseAmount_Rounding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "integer", in: "3", want: "3.0000"},
		{name: "exact_four_digits", in: "1.2345", want: "1.2345"},
		{name: "fewer_digits_kept", in: "10.5", want: "10.5000"},
		{name: "fifth_digit_rounds_up", in: "1.23455", want: "1.2346"},
		{name: "half_away_from_zero", in: "1.23445", want: "1.2345"},
		{name: "negative_half_away_from_zero", in: "-1.23445", want: "-1.2345"},
		{name: "negative_rounds_away", in: "-1.23455", want: "-1.2346"},
		{name: "below_half_rounds_down", in: "2.00004", want: "2.0000"},
		{name: "zero", in: "0", want: "0.0000"},
		{name: "leading_plus", in: "+7.25", want: "7.2500"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseAmount(tt.in)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.in, err)
			}
			if got.StringFixed4() != tt.want {
				t.Fatalf("parse %q: want %s, got %s", tt.in, tt.want, got.StringFixed4())
			}
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "abc", "1.2.3", "--1", "1,5"} {
		_, err := ParseAmount(in)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("parse %q: want ErrInvalidAmount, got %v", in, err)
		}
	}
}

func TestAmount_Arithmetic(t *testing.T) {
	t.Parallel()

	mustParse := func(s string) Amount {
		a, err := ParseAmount(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		return a
	}

	a := mustParse("5.0001")
	b := mustParse("3.0002")

	if got := a.Add(b).StringFixed4(); got != "8.0003" {
		t.Fatalf("add: want 8.0003, got %s", got)
	}
	if got := a.Sub(b).StringFixed4(); got != "1.9999" {
		t.Fatalf("sub: want 1.9999, got %s", got)
	}

	// subtraction past zero is legal at the type level
	neg := b.Sub(a)
	if !neg.IsNegative() {
		t.Fatalf("expected negative result, got %s", neg.StringFixed4())
	}
	if got := neg.StringFixed4(); got != "-1.9999" {
		t.Fatalf("sub past zero: want -1.9999, got %s", got)
	}

	if a.Cmp(b) != 1 || b.Cmp(a) != -1 || a.Cmp(a) != 0 {
		t.Fatalf("cmp ordering broken")
	}
	if !a.Equal(mustParse("5.0001")) {
		t.Fatalf("equal values not Equal")
	}
}

func TestAmount_ZeroValue(t *testing.T) {
	t.Parallel()

	var zero Amount
	if zero.IsNegative() {
		t.Fatalf("zero value must not be negative")
	}
	if got := zero.StringFixed4(); got != "0.0000" {
		t.Fatalf("zero value: want 0.0000, got %s", got)
	}
}
