// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger moves token balances between registered accounts while
// keeping the total supply equal to the sum of all balances.
package ledger

import (
	"context"
	"fmt"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/event"
	"github.com/ava-labs/ftledger/state"
	"github.com/ava-labs/ftledger/storage"
)

// Ledger applies balance changes to a single view. Events are appended to
// [events] and must only be delivered once the view commits.
type Ledger struct {
	mu     state.Mutable
	events *event.Buffer
}

func New(mu state.Mutable, events *event.Buffer) *Ledger {
	return &Ledger{mu: mu, events: events}
}

// BalanceOf returns the balance of [id], or zero if it is not registered.
func BalanceOf(ctx context.Context, im state.Immutable, id account.ID) (amount.U128, error) {
	a, _, err := storage.GetAccount(ctx, im, id)
	if err != nil {
		return amount.Zero, err
	}
	return a.Balance, nil
}

func TotalSupply(ctx context.Context, im state.Immutable) (amount.U128, error) {
	supply, initialized, err := storage.GetTotalSupply(ctx, im)
	if err != nil {
		return amount.Zero, err
	}
	if !initialized {
		return amount.Zero, ErrNotInitialized
	}
	return supply, nil
}

func (l *Ledger) account(ctx context.Context, id account.ID) (storage.Account, error) {
	a, exists, err := storage.GetAccount(ctx, l.mu, id)
	if err != nil {
		return storage.Account{}, err
	}
	if !exists {
		return storage.Account{}, fmt.Errorf("%w: %s", ErrAccountNotRegistered, id)
	}
	return a, nil
}

// Deposit credits [amt] to [id] and grows the supply by the same amount.
func (l *Ledger) Deposit(ctx context.Context, id account.ID, amt amount.U128) error {
	a, err := l.account(ctx, id)
	if err != nil {
		return err
	}
	supply, err := TotalSupply(ctx, l.mu)
	if err != nil {
		return err
	}
	a.Balance, err = a.Balance.Add(amt)
	if err != nil {
		return fmt.Errorf("balance of %s: %w", id, err)
	}
	supply, err = supply.Add(amt)
	if err != nil {
		return fmt.Errorf("total supply: %w", err)
	}
	if err := storage.SetAccount(ctx, l.mu, id, a); err != nil {
		return err
	}
	return storage.SetTotalSupply(ctx, l.mu, supply)
}

// Withdraw debits [amt] from [id] and shrinks the supply by the same
// amount.
func (l *Ledger) Withdraw(ctx context.Context, id account.ID, amt amount.U128) error {
	a, err := l.account(ctx, id)
	if err != nil {
		return err
	}
	if a.Balance.Lt(amt) {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, id, a.Balance, amt)
	}
	supply, err := TotalSupply(ctx, l.mu)
	if err != nil {
		return err
	}
	a.Balance, err = a.Balance.Sub(amt)
	if err != nil {
		return err
	}
	supply, err = supply.Sub(amt)
	if err != nil {
		return fmt.Errorf("total supply: %w", err)
	}
	if err := storage.SetAccount(ctx, l.mu, id, a); err != nil {
		return err
	}
	return storage.SetTotalSupply(ctx, l.mu, supply)
}

// Transfer moves [amt] from [sender] to [receiver]. The supply is
// unchanged.
func (l *Ledger) Transfer(
	ctx context.Context,
	sender account.ID,
	receiver account.ID,
	amt amount.U128,
	memo *string,
) error {
	if sender == receiver {
		return ErrSelfTransfer
	}
	if amt.IsZero() {
		return ErrZeroAmount
	}
	from, err := l.account(ctx, sender)
	if err != nil {
		return err
	}
	to, err := l.account(ctx, receiver)
	if err != nil {
		return err
	}
	if from.Balance.Lt(amt) {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, sender, from.Balance, amt)
	}
	from.Balance, err = from.Balance.Sub(amt)
	if err != nil {
		return err
	}
	to.Balance, err = to.Balance.Add(amt)
	if err != nil {
		return fmt.Errorf("balance of %s: %w", receiver, err)
	}
	if err := storage.SetAccount(ctx, l.mu, sender, from); err != nil {
		return err
	}
	if err := storage.SetAccount(ctx, l.mu, receiver, to); err != nil {
		return err
	}
	l.events.Add(event.NewTransfer(sender, receiver, amt, memo))
	return nil
}

func (l *Ledger) Mint(ctx context.Context, owner account.ID, amt amount.U128, memo *string) error {
	if err := l.Deposit(ctx, owner, amt); err != nil {
		return err
	}
	l.events.Add(event.NewMint(owner, amt, memo))
	return nil
}

func (l *Ledger) Burn(ctx context.Context, owner account.ID, amt amount.U128, memo *string) error {
	if err := l.Withdraw(ctx, owner, amt); err != nil {
		return err
	}
	l.events.Add(event.NewBurn(owner, amt, memo))
	return nil
}
