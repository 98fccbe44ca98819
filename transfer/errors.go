// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transfer

import "errors"

var (
	ErrEmptyPayload     = errors.New("transfer call requires a non-empty message")
	ErrPayloadTooLarge  = errors.New("message too large")
	ErrMemoTooLarge     = errors.New("memo too large")
	ErrNoReceiver       = errors.New("receiver has no transfer hook")
	ErrNotifyTimeout    = errors.New("receiver did not respond in time")
	ErrReceiverPanicked = errors.New("receiver panicked")
	ErrInvalidState     = errors.New("invalid transfer state")
)
