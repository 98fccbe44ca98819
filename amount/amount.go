// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package amount implements the unsigned 128-bit integers used for token
// balances, supply and native value. Arithmetic never wraps: any result
// outside [0, 2^128-1] is reported as an error.
package amount

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/ftledger/consts"
)

const (
	bits = 128

	// maxDigits is the number of decimal digits in 2^128-1.
	maxDigits = 39
)

var (
	Zero = U128{}
	One  = New(1)
	Max  = U128{v: uint256.Int{consts.MaxUint64, consts.MaxUint64, 0, 0}}
)

// U128 is an immutable 128-bit unsigned integer. The zero value is 0.
type U128 struct {
	v uint256.Int
}

func New(x uint64) U128 {
	var u U128
	u.v.SetUint64(x)
	return u
}

// Parse decodes a base-10 string of ASCII digits.
func Parse(s string) (U128, error) {
	if len(s) == 0 {
		return Zero, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
	}
	// Strip leading zeros so the digit bound below only counts significant
	// digits.
	trimmed := s
	for len(trimmed) > 1 && trimmed[0] == '0' {
		trimmed = trimmed[1:]
	}
	if len(trimmed) > maxDigits {
		return Zero, fmt.Errorf("%w: %s", ErrOverflow, s)
	}
	var u U128
	if err := u.v.SetFromDecimal(trimmed); err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if u.v.BitLen() > bits {
		return Zero, fmt.Errorf("%w: %s", ErrOverflow, s)
	}
	return u, nil
}

// MustParse is Parse for constants; it panics on invalid input.
func MustParse(s string) U128 {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

// FromBytes decodes a 16-byte big-endian value.
func FromBytes(b []byte) (U128, error) {
	if len(b) != consts.Uint128Len {
		return Zero, fmt.Errorf("%w: expected %d bytes, found %d", ErrInvalidAmount, consts.Uint128Len, len(b))
	}
	var u U128
	u.v[1] = binary.BigEndian.Uint64(b[:consts.Uint64Len])
	u.v[0] = binary.BigEndian.Uint64(b[consts.Uint64Len:])
	return u, nil
}

// Bytes returns the 16-byte big-endian encoding of u.
func (u U128) Bytes() [consts.Uint128Len]byte {
	var b [consts.Uint128Len]byte
	binary.BigEndian.PutUint64(b[:consts.Uint64Len], u.v[1])
	binary.BigEndian.PutUint64(b[consts.Uint64Len:], u.v[0])
	return b
}

func (u U128) String() string {
	return u.v.Dec()
}

func (u U128) IsZero() bool {
	return u.v.IsZero()
}

// Cmp returns -1, 0 or +1 depending on whether u is less than, equal to or
// greater than o.
func (u U128) Cmp(o U128) int {
	return u.v.Cmp(&o.v)
}

func (u U128) Lt(o U128) bool {
	return u.v.Lt(&o.v)
}

func (u U128) Add(o U128) (U128, error) {
	var r U128
	if _, overflow := r.v.AddOverflow(&u.v, &o.v); overflow || r.v.BitLen() > bits {
		return Zero, fmt.Errorf("%w: %s + %s", ErrOverflow, u, o)
	}
	return r, nil
}

func (u U128) Sub(o U128) (U128, error) {
	var r U128
	if _, underflow := r.v.SubOverflow(&u.v, &o.v); underflow {
		return Zero, fmt.Errorf("%w: %s - %s", ErrUnderflow, u, o)
	}
	return r, nil
}

// MulDivCeil returns ceil(u * mul / div). The intermediate product is
// computed with 256 bits of headroom, so only the final result is bounded.
func (u U128) MulDivCeil(mul, div uint64) (U128, error) {
	if div == 0 {
		return Zero, ErrDivisionByZero
	}
	var (
		product, q, m uint256.Int
		m64           = uint256.NewInt(mul)
		d64           = uint256.NewInt(div)
	)
	product.Mul(&u.v, m64)
	q.Div(&product, d64)
	m.Mod(&product, d64)
	if !m.IsZero() {
		q.AddUint64(&q, 1)
	}
	if q.BitLen() > bits {
		return Zero, fmt.Errorf("%w: ceil(%s * %d / %d)", ErrOverflow, u, mul, div)
	}
	return U128{v: q}, nil
}

func Min(a, b U128) U128 {
	if a.Lt(b) {
		return a
	}
	return b
}

// MarshalJSON encodes u as a base-10 string.
func (u U128) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON only accepts base-10 strings; JSON numbers are rejected.
func (u *U128) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: amounts must be decimal strings", ErrInvalidAmount)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// MarshalYAML encodes u as a base-10 string.
func (u U128) MarshalYAML() (interface{}, error) {
	return u.String(), nil
}

func (u *U128) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
