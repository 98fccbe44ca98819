// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import "errors"

var (
	ErrNonZeroBalance               = errors.New("can't unregister the account with the positive balance without force")
	ErrInsufficientAvailableBalance = errors.New("insufficient available storage balance")
)
