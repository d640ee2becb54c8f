package moneypkg

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		amount  string
		want    string
		wantErr bool
	}{
		{name: "Integer", amount: "500", want: "500.00"},
		{name: "AlreadyCents", amount: "12.34", want: "12.34"},
		{name: "HalfRoundsAwayFromZero", amount: "0.005", want: "0.01"},
		{name: "NegativeHalfRoundsAwayFromZero", amount: "-0.005", want: "-0.01"},
		{name: "FloatNoise", amount: "0.30000000000000004", want: "0.30"},
		{name: "Empty", amount: "", wantErr: true},
		{name: "NaN", amount: "NaN", wantErr: true},
		{name: "Infinity", amount: "+Inf", wantErr: true},
		{name: "Garbage", amount: "12,34", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.amount)

			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, String(got))
		})
	}
}

func TestRoundCentsIsStable(t *testing.T) {
	d, err := Parse("100.10")
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		d = RoundCents(d)
	}

	require.Equal(t, "100.10", String(d))
}

func TestStringFixesScale(t *testing.T) {
	require.Equal(t, "3.00", String(decimal.NewFromInt(3)))
	require.Equal(t, Zero, String(decimal.Zero))
}
