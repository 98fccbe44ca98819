// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrCorruptValue     = errors.New("corrupt value")
	ErrTooManyPending   = errors.New("too many pending transfers")
	ErrPendingNotFound  = errors.New("pending transfer not found")
	ErrDuplicatePending = errors.New("duplicate pending transfer")
	ErrValueTooLarge    = errors.New("value too large")
)
