package num

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/tallyweave/tally/errors"
)

// max128 is 2^128 - 1
const max128 = "340282366920938463463374607431768211455"

func TestUintArithmetic(t *testing.T) {
	cases := map[string]struct {
		op      func() (Uint, error)
		want    string
		wantErr *errors.Error
	}{
		"add": {
			op:   func() (Uint, error) { return NewUint(40).Add(NewUint(2)) },
			want: "42",
		},
		"add overflows 256 bits": {
			op: func() (Uint, error) {
				max := MustParseUint(strings.Repeat("9", 77))
				return max.Add(max)
			},
			wantErr: errors.ErrOverflow,
		},
		"sub": {
			op:   func() (Uint, error) { return NewUint(400).Sub(NewUint(100)) },
			want: "300",
		},
		"sub below zero": {
			op:      func() (Uint, error) { return NewUint(1).Sub(NewUint(2)) },
			wantErr: errors.ErrOverflow,
		},
		"mul beyond 128 bits is fine": {
			op:   func() (Uint, error) { return MustParseUint(max128).Mul(NewUint(2)) },
			want: "680564733841876926926749214863536422910",
		},
		"mul overflows 256 bits": {
			op: func() (Uint, error) {
				big := MustParseUint(max128)
				big, _ = big.Mul(NewUint(4))
				return big.Mul(MustParseUint(max128))
			},
			wantErr: errors.ErrOverflow,
		},
		"div floors": {
			op:   func() (Uint, error) { return NewUint(10).Div(NewUint(3)) },
			want: "3",
		},
		"div by zero": {
			op:      func() (Uint, error) { return NewUint(10).Div(Zero()) },
			wantErr: errors.ErrDivisionByZero,
		},
		"mod": {
			op:   func() (Uint, error) { return NewUint(10).Mod(NewUint(3)) },
			want: "1",
		},
		"sum": {
			op:   func() (Uint, error) { return Sum(NewUint(1), NewUint(2), NewUint(3)) },
			want: "6",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.op()
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
			if tc.wantErr == nil && got.String() != tc.want {
				t.Fatalf("want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestCheck128(t *testing.T) {
	if err := MustParseUint(max128).Check128(); err != nil {
		t.Fatalf("max u128 must fit: %s", err)
	}
	over, err := MustParseUint(max128).Add(NewUint(1))
	if err != nil {
		t.Fatalf("cannot add: %s", err)
	}
	if err := over.Check128(); !errors.ErrOverflow.Is(err) {
		t.Fatalf("want overflow, got %+v", err)
	}
}

func TestParseUint(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    string
		wantErr *errors.Error
	}{
		"zero":          {raw: "0", want: "0"},
		"padded":        {raw: " 17 ", want: "17"},
		"empty":         {raw: "", wantErr: errors.ErrInput},
		"negative":      {raw: "-1", wantErr: errors.ErrInput},
		"garbage":       {raw: "12a", wantErr: errors.ErrInput},
		"too big":       {raw: strings.Repeat("9", 80), wantErr: errors.ErrOverflow},
		"max u128 fits": {raw: max128, want: max128},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseUint(tc.raw)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
			if tc.wantErr == nil && got.String() != tc.want {
				t.Fatalf("want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestUintJSON(t *testing.T) {
	var v struct {
		A Uint `json:"a"`
		B Uint `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a": "123", "b": 7}`), &v); err != nil {
		t.Fatalf("cannot unmarshal: %s", err)
	}
	if !v.A.Equals(NewUint(123)) || !v.B.Equals(NewUint(7)) {
		t.Fatalf("unexpected values: %s %s", v.A, v.B)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("cannot marshal: %s", err)
	}
	if want := `{"a":"123","b":"7"}`; string(raw) != want {
		t.Fatalf("want %s, got %s", want, raw)
	}
}

func TestUintComparison(t *testing.T) {
	one, two := NewUint(1), NewUint(2)
	if !one.LT(two) || one.GT(two) || one.Equals(two) {
		t.Fatal("unexpected ordering")
	}
	if one.Cmp(two) != -1 || two.Cmp(one) != 1 || one.Cmp(NewUint(1)) != 0 {
		t.Fatal("unexpected cmp")
	}
	if !Min(one, two).Equals(one) {
		t.Fatal("unexpected min")
	}
	if !Zero().IsZero() || one.IsZero() {
		t.Fatal("unexpected zero check")
	}
}
