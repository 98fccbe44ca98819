// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"errors"

	"github.com/ava-labs/ftledger/ledger"
	"github.com/ava-labs/ftledger/meter"
	"github.com/ava-labs/ftledger/metadata"
	"github.com/ava-labs/ftledger/registry"
	"github.com/ava-labs/ftledger/transfer"
)

var (
	ErrRequiresOneUnit    = errors.New("requires attached deposit of exactly 1 unit")
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrClosed             = errors.New("contract closed")
	ErrMissingEnvironment = errors.New("missing environment")

	ErrNotInitialized               = ledger.ErrNotInitialized
	ErrSelfTransfer                 = ledger.ErrSelfTransfer
	ErrZeroAmount                   = ledger.ErrZeroAmount
	ErrAccountNotRegistered         = ledger.ErrAccountNotRegistered
	ErrInsufficientBalance          = ledger.ErrInsufficientBalance
	ErrEmptyPayload                 = transfer.ErrEmptyPayload
	ErrInsufficientStorageDeposit   = meter.ErrInsufficientStorageDeposit
	ErrInsufficientAvailableBalance = registry.ErrInsufficientAvailableBalance
	ErrNonZeroBalance               = registry.ErrNonZeroBalance
	ErrInvalidMetadata              = metadata.ErrInvalidMetadata
)
