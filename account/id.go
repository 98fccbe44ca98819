// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package account

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

const (
	MinLen = 2
	MaxLen = 64
)

// ID identifies an account. IDs are opaque to the ledger beyond the
// character rules enforced by [Parse].
type ID string

// Parse validates [s] and returns it as an [ID].
//
// Valid IDs are [MinLen]..[MaxLen] bytes of lowercase letters and digits
// split by single separators (-, _ or .). A separator may not start or end
// the ID.
func Parse(s string) (ID, error) {
	if len(s) < MinLen || len(s) > MaxLen {
		return "", fmt.Errorf("%w: %q has length %d", ErrInvalidID, s, len(s))
	}
	lastSeparator := true // disallow a leading separator
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			lastSeparator = false
		case c == '-' || c == '_' || c == '.':
			if lastSeparator {
				return "", fmt.Errorf("%w: %q has misplaced separator at %d", ErrInvalidID, s, i)
			}
			lastSeparator = true
		default:
			return "", fmt.Errorf("%w: %q has invalid character %q", ErrInvalidID, s, c)
		}
	}
	if lastSeparator {
		return "", fmt.Errorf("%w: %q ends with a separator", ErrInvalidID, s)
	}
	return ID(s), nil
}

// MustParse is Parse for literals; it panics on invalid input.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) String() string {
	return string(id)
}

// Hash returns the fixed-size digest used to key the account in state.
func (id ID) Hash() [sha256.Size]byte {
	return sha256.Sum256([]byte(id))
}

func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
