// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/contract"
	"github.com/ava-labs/ftledger/metadata"
	"github.com/ava-labs/ftledger/registry"
	"github.com/ava-labs/ftledger/storage"
)

// Ledger is the set of operations exposed over JSON-RPC.
type Ledger interface {
	TotalSupply(ctx context.Context) (amount.U128, error)
	BalanceOf(ctx context.Context, id account.ID) (amount.U128, error)
	Transfer(ctx context.Context, call contract.Call, receiver account.ID, amt amount.U128, memo *string) error
	TransferCall(ctx context.Context, call contract.Call, receiver account.ID, amt amount.U128, memo *string, msg string) (amount.U128, error)
	StorageDeposit(ctx context.Context, call contract.Call, id *account.ID, registrationOnly *bool) (registry.StorageBalance, error)
	StorageWithdraw(ctx context.Context, call contract.Call, amt *amount.U128) (registry.StorageBalance, error)
	StorageUnregister(ctx context.Context, call contract.Call, force *bool) (bool, error)
	StorageBalanceBounds(ctx context.Context) registry.StorageBalanceBounds
	StorageBalanceOf(ctx context.Context, id account.ID) (*registry.StorageBalance, error)
	Metadata(ctx context.Context) (*metadata.Metadata, error)
	PendingTransfers(ctx context.Context) ([]*storage.PendingTransfer, error)
}

// Bank holds the native value callers attach to their calls.
type Bank interface {
	Attach(ctx context.Context, from account.ID, amt amount.U128) error
	Balance(id account.ID) amount.U128
}

type Controller interface {
	Logger() logging.Logger
	Tracer() trace.Tracer
	Ledger() Ledger
	Bank() Bank
}
