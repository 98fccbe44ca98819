// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry manages which accounts may hold a balance. Registering
// an account stakes the value that pays for its storage; unregistering
// releases it.
package registry

import (
	"context"
	"fmt"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/ledger"
	"github.com/ava-labs/ftledger/meter"
	"github.com/ava-labs/ftledger/state"
	"github.com/ava-labs/ftledger/storage"
)

type StorageBalance struct {
	Total     amount.U128 `json:"total"`
	Available amount.U128 `json:"available"`
}

type StorageBalanceBounds struct {
	Min amount.U128  `json:"min"`
	Max *amount.U128 `json:"max"`
}

// Bounds returns the stake every account must hold. Accounts never hold
// more than the minimum, so Max equals Min.
func Bounds(pricing meter.Pricing) (StorageBalanceBounds, error) {
	minBound, err := pricing.Price(storage.AccountStorageUsage)
	if err != nil {
		return StorageBalanceBounds{}, err
	}
	maxBound := minBound
	return StorageBalanceBounds{Min: minBound, Max: &maxBound}, nil
}

// StorageBalanceOf returns the stake of [id] or nil if it is not
// registered.
func StorageBalanceOf(ctx context.Context, im state.Immutable, id account.ID) (*StorageBalance, error) {
	a, exists, err := storage.GetAccount(ctx, im, id)
	if err != nil || !exists {
		return nil, err
	}
	return &StorageBalance{Total: a.Stake, Available: amount.Zero}, nil
}

type Registry struct {
	mu     state.Mutable
	ledger *ledger.Ledger
	bounds StorageBalanceBounds
}

func New(mu state.Mutable, l *ledger.Ledger, pricing meter.Pricing) (*Registry, error) {
	bounds, err := Bounds(pricing)
	if err != nil {
		return nil, err
	}
	return &Registry{mu: mu, ledger: l, bounds: bounds}, nil
}

func (r *Registry) Bounds() StorageBalanceBounds {
	return r.bounds
}

// Register creates an empty account for [id] staking the minimum bound. If
// [id] is already registered, its current stake is returned and registered
// is false.
func (r *Registry) Register(
	ctx context.Context,
	id account.ID,
	attached amount.U128,
) (StorageBalance, bool, error) {
	a, exists, err := storage.GetAccount(ctx, r.mu, id)
	if err != nil {
		return StorageBalance{}, false, err
	}
	if exists {
		return StorageBalance{Total: a.Stake, Available: amount.Zero}, false, nil
	}
	if attached.Lt(r.bounds.Min) {
		return StorageBalance{}, false, fmt.Errorf(
			"%w: the attached deposit %s is less than the minimum storage balance %s",
			meter.ErrInsufficientStorageDeposit,
			attached,
			r.bounds.Min,
		)
	}
	stake := r.bounds.Min
	if err := storage.SetAccount(ctx, r.mu, id, storage.Account{Balance: amount.Zero, Stake: stake}); err != nil {
		return StorageBalance{}, false, err
	}
	return StorageBalance{Total: stake, Available: amount.Zero}, true, nil
}

// Unregister removes [id]. An account holding tokens can only be removed
// with [force], which burns its balance first. The burned amount is
// returned.
func (r *Registry) Unregister(ctx context.Context, id account.ID, force bool) (amount.U128, error) {
	a, exists, err := storage.GetAccount(ctx, r.mu, id)
	if err != nil {
		return amount.Zero, err
	}
	if !exists {
		return amount.Zero, fmt.Errorf("%w: %s", ledger.ErrAccountNotRegistered, id)
	}
	if !a.Balance.IsZero() {
		if !force {
			return amount.Zero, fmt.Errorf("%w: %s holds %s", ErrNonZeroBalance, id, a.Balance)
		}
		if err := r.ledger.Burn(ctx, id, a.Balance, nil); err != nil {
			return amount.Zero, err
		}
	}
	if err := storage.DeleteAccount(ctx, r.mu, id); err != nil {
		return amount.Zero, err
	}
	return a.Balance, nil
}

// Withdraw returns the stake of [id]. Nothing above the minimum is ever
// held, so only a missing or zero [amt] succeeds.
func (r *Registry) Withdraw(ctx context.Context, id account.ID, amt *amount.U128) (StorageBalance, error) {
	bal, err := StorageBalanceOf(ctx, r.mu, id)
	if err != nil {
		return StorageBalance{}, err
	}
	if bal == nil {
		return StorageBalance{}, fmt.Errorf("%w: %s", ledger.ErrAccountNotRegistered, id)
	}
	if amt != nil && bal.Available.Lt(*amt) {
		return StorageBalance{}, fmt.Errorf(
			"%w: the amount %s is greater than the available storage balance %s",
			ErrInsufficientAvailableBalance,
			*amt,
			bal.Available,
		)
	}
	return *bal, nil
}
