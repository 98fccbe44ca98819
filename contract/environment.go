// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"context"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
)

//go:generate go run go.uber.org/mock/mockgen -package=${GOPACKAGE} -destination=mock_environment.go . Environment

// Environment is the host that holds native value on behalf of the ledger.
// Value attached to a call has already been transferred to the ledger when
// the call starts; whatever is owed back is returned through Refund.
type Environment interface {
	Refund(ctx context.Context, to account.ID, amt amount.U128) error
}

// Call identifies who invoked an operation and how much native value they
// attached to it.
type Call struct {
	Predecessor account.ID
	Attached    amount.U128
}
