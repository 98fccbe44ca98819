// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package native holds the native value accounts pay storage deposits
// with.
package native

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
)

var ErrInvalidBalance = errors.New("invalid balance")

// Bank is an in-memory native value ledger. Attaching value to a call
// debits the caller; refunds credit it back.
type Bank struct {
	lock     sync.RWMutex
	balances map[account.ID]amount.U128
}

func NewBank(allocations map[account.ID]amount.U128) *Bank {
	balances := make(map[account.ID]amount.U128, len(allocations))
	for id, bal := range allocations {
		if bal.IsZero() {
			continue
		}
		balances[id] = bal
	}
	return &Bank{balances: balances}
}

func (b *Bank) Balance(id account.ID) amount.U128 {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return b.balances[id]
}

// Attach debits [amt] from [from] so it can be attached to a call.
func (b *Bank) Attach(_ context.Context, from account.ID, amt amount.U128) error {
	if amt.IsZero() {
		return nil
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	bal := b.balances[from]
	nbal, err := bal.Sub(amt)
	if err != nil {
		return fmt.Errorf(
			"%w: could not attach value (bal=%s, account=%s, amount=%s)",
			ErrInvalidBalance,
			bal,
			from,
			amt,
		)
	}
	if nbal.IsZero() {
		delete(b.balances, from)
		return nil
	}
	b.balances[from] = nbal
	return nil
}

// Refund credits [amt] to [to].
func (b *Bank) Refund(_ context.Context, to account.ID, amt amount.U128) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	bal := b.balances[to]
	nbal, err := bal.Add(amt)
	if err != nil {
		return fmt.Errorf(
			"%w: could not refund value (bal=%s, account=%s, amount=%s)",
			ErrInvalidBalance,
			bal,
			to,
			amt,
		)
	}
	b.balances[to] = nbal
	return nil
}
