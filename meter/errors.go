// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package meter

import "errors"

var (
	ErrInsufficientStorageDeposit = errors.New("insufficient storage deposit")
	ErrOperationPanicked          = errors.New("operation panicked")
	ErrInvalidPricing             = errors.New("invalid storage pricing")
)
