// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import "errors"

var (
	ErrSelfTransfer         = errors.New("sender and receiver should be different")
	ErrZeroAmount           = errors.New("the amount should be a positive number")
	ErrAccountNotRegistered = errors.New("account is not registered")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrNotInitialized       = errors.New("ledger is not initialized")
)
