// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/onsi/ginkgo/v2/formatter"

	"github.com/ava-labs/ftledger/amount"
)

var ErrInvalidDecimal = errors.New("invalid decimal amount")

func ToID(bytes []byte) ids.ID {
	return ids.ID(hashing.ComputeHash256Array(bytes))
}

func InitSubDirectory(rootPath string, name string) (string, error) {
	p := path.Join(rootPath, name)
	return p, os.MkdirAll(p, perms.ReadWriteExecute)
}

// Outputs to stdout.
//
// e.g.,
//
//	Out("{{green}}{{bold}}hi there %q{{/}}", "aa")
//	Out("{{magenta}}{{bold}}hi therea{{/}} {{cyan}}{{underline}}b{{/}}")
//
// ref.
// https://github.com/onsi/ginkgo/blob/v2.0.0/formatter/formatter.go#L52-L73
func Outf(format string, args ...interface{}) {
	s := formatter.F(format, args...)
	fmt.Fprint(formatter.ColorableStdOut, s)
}

// FormatAmount renders [a] with [decimals] fractional digits, trimming
// trailing zeros.
func FormatAmount(a amount.U128, decimals uint8) string {
	s := a.String()
	d := int(decimals)
	if d == 0 {
		return s
	}
	if len(s) <= d {
		s = strings.Repeat("0", d-len(s)+1) + s
	}
	whole, frac := s[:len(s)-d], strings.TrimRight(s[len(s)-d:], "0")
	if len(frac) == 0 {
		return whole
	}
	return whole + "." + frac
}

// ParseAmount is the inverse of FormatAmount. At most [decimals] fractional
// digits are accepted.
func ParseAmount(s string, decimals uint8) (amount.U128, error) {
	whole, frac, found := strings.Cut(s, ".")
	if found && len(frac) == 0 {
		return amount.Zero, fmt.Errorf("%w: %q", ErrInvalidDecimal, s)
	}
	if len(frac) > int(decimals) {
		return amount.Zero, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidDecimal, s, decimals)
	}
	if len(whole) == 0 {
		whole = "0"
	}
	return amount.Parse(whole + frac + strings.Repeat("0", int(decimals)-len(frac)))
}
