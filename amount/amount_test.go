// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package amount

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const maxU128 = "340282366920938463463374607431768211455"

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		expectedErr error
	}{
		{name: "zero", input: "0", expected: "0"},
		{name: "leading zeros", input: "000123", expected: "123"},
		{name: "max", input: maxU128, expected: maxU128},
		{name: "max plus one", input: "340282366920938463463374607431768211456", expectedErr: ErrOverflow},
		{name: "too many digits", input: "1000000000000000000000000000000000000000000", expectedErr: ErrOverflow},
		{name: "empty", input: "", expectedErr: ErrInvalidAmount},
		{name: "negative", input: "-1", expectedErr: ErrInvalidAmount},
		{name: "plus sign", input: "+1", expectedErr: ErrInvalidAmount},
		{name: "hex", input: "0x10", expectedErr: ErrInvalidAmount},
		{name: "space", input: " 1", expectedErr: ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			u, err := Parse(tt.input)
			require.ErrorIs(err, tt.expectedErr)
			if tt.expectedErr == nil {
				require.Equal(tt.expected, u.String())
			}
		})
	}
}

func TestArithmetic(t *testing.T) {
	require := require.New(t)

	sum, err := New(700_000).Add(New(300_000))
	require.NoError(err)
	require.Equal(New(1_000_000), sum)

	diff, err := sum.Sub(New(1_000_000))
	require.NoError(err)
	require.True(diff.IsZero())

	_, err = Max.Add(One)
	require.ErrorIs(err, ErrOverflow)

	_, err = Zero.Sub(One)
	require.ErrorIs(err, ErrUnderflow)

	require.Equal(-1, New(1).Cmp(New(2)))
	require.Equal(0, Max.Cmp(MustParse(maxU128)))
	require.Equal(New(3), Min(New(3), New(9)))
}

func TestMulDivCeil(t *testing.T) {
	require := require.New(t)

	// exact division
	v, err := New(10).MulDivCeil(64, 64)
	require.NoError(err)
	require.Equal(New(10), v)

	// one unit above an exact boundary rounds up
	v, err = New(10).MulDivCeil(65, 64)
	require.NoError(err)
	require.Equal(New(11), v)

	// one unit below an exact boundary rounds up to the boundary
	v, err = New(10).MulDivCeil(63, 64)
	require.NoError(err)
	require.Equal(New(10), v)

	// intermediate product larger than 128 bits
	v, err = Max.MulDivCeil(2, 2)
	require.NoError(err)
	require.Equal(Max, v)

	_, err = Max.MulDivCeil(2, 1)
	require.ErrorIs(err, ErrOverflow)

	_, err = One.MulDivCeil(1, 0)
	require.ErrorIs(err, ErrDivisionByZero)
}

func TestBytes(t *testing.T) {
	require := require.New(t)

	for _, u := range []U128{Zero, One, New(1 << 40), Max, MustParse("18446744073709551616")} {
		b := u.Bytes()
		decoded, err := FromBytes(b[:])
		require.NoError(err)
		require.Equal(u, decoded)
	}
	_, err := FromBytes([]byte{1, 2, 3})
	require.ErrorIs(err, ErrInvalidAmount)
}

func TestJSON(t *testing.T) {
	require := require.New(t)

	type reply struct {
		Amount U128 `json:"amount"`
	}
	b, err := json.Marshal(reply{Amount: Max})
	require.NoError(err)
	require.JSONEq(`{"amount":"`+maxU128+`"}`, string(b))

	var r reply
	require.NoError(json.Unmarshal(b, &r))
	require.Equal(Max, r.Amount)

	require.ErrorIs(json.Unmarshal([]byte(`{"amount":100}`), &r), ErrInvalidAmount)
	require.ErrorIs(json.Unmarshal([]byte(`{"amount":"-5"}`), &r), ErrInvalidAmount)
}
