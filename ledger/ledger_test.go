// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/event"
	"github.com/ava-labs/ftledger/storage"
	"github.com/ava-labs/ftledger/tstate"
)

var (
	alice = account.MustParse("alice")
	bob   = account.MustParse("bob")
	carol = account.MustParse("carol")
)

func newTestLedger(t *testing.T, registered ...account.ID) (*Ledger, *tstate.TStateView, *event.Buffer) {
	require := require.New(t)
	ctx := context.TODO()

	ts, err := tstate.New(memdb.New(), storage.TStateConfig())
	require.NoError(err)
	view := ts.NewView()
	require.NoError(storage.SetTotalSupply(ctx, view, amount.Zero))
	for _, id := range registered {
		require.NoError(storage.SetAccount(ctx, view, id, storage.Account{}))
	}
	events := &event.Buffer{}
	return New(view, events), view, events
}

func requireConservation(t *testing.T, view *tstate.TStateView, ids ...account.ID) {
	require := require.New(t)
	ctx := context.TODO()

	sum := amount.Zero
	for _, id := range ids {
		bal, err := BalanceOf(ctx, view, id)
		require.NoError(err)
		sum, err = sum.Add(bal)
		require.NoError(err)
	}
	supply, err := TotalSupply(ctx, view)
	require.NoError(err)
	require.Equal(supply, sum)
}

func TestDepositWithdraw(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	l, view, events := newTestLedger(t, alice, bob)

	require.NoError(l.Deposit(ctx, alice, amount.New(100)))
	require.NoError(l.Deposit(ctx, bob, amount.New(50)))
	requireConservation(t, view, alice, bob)

	require.NoError(l.Withdraw(ctx, alice, amount.New(40)))
	bal, err := BalanceOf(ctx, view, alice)
	require.NoError(err)
	require.Equal(amount.New(60), bal)
	requireConservation(t, view, alice, bob)

	require.ErrorIs(l.Withdraw(ctx, alice, amount.New(61)), ErrInsufficientBalance)
	require.ErrorIs(l.Deposit(ctx, carol, amount.One), ErrAccountNotRegistered)
	require.ErrorIs(l.Withdraw(ctx, carol, amount.Zero), ErrAccountNotRegistered)

	// Deposit and withdraw do not emit events on their own.
	require.Empty(events.Drain())
}

func TestDepositOverflow(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	l, view, _ := newTestLedger(t, alice, bob)

	require.NoError(l.Deposit(ctx, alice, amount.Max))
	require.ErrorIs(l.Deposit(ctx, alice, amount.One), amount.ErrOverflow)
	// The supply overflows even though bob's balance would not.
	require.ErrorIs(l.Deposit(ctx, bob, amount.One), amount.ErrOverflow)

	bal, err := BalanceOf(ctx, view, bob)
	require.NoError(err)
	require.True(bal.IsZero())
	requireConservation(t, view, alice, bob)
}

func TestTransfer(t *testing.T) {
	tests := []struct {
		name        string
		sender      account.ID
		receiver    account.ID
		amount      amount.U128
		expectedErr error
	}{
		{
			name:     "valid",
			sender:   alice,
			receiver: bob,
			amount:   amount.New(30),
		},
		{
			name:     "entire balance",
			sender:   alice,
			receiver: bob,
			amount:   amount.New(100),
		},
		{
			name:        "self transfer",
			sender:      alice,
			receiver:    alice,
			amount:      amount.One,
			expectedErr: ErrSelfTransfer,
		},
		{
			name:        "zero amount",
			sender:      alice,
			receiver:    bob,
			amount:      amount.Zero,
			expectedErr: ErrZeroAmount,
		},
		{
			name:        "unregistered receiver",
			sender:      alice,
			receiver:    carol,
			amount:      amount.One,
			expectedErr: ErrAccountNotRegistered,
		},
		{
			name:        "unregistered sender",
			sender:      carol,
			receiver:    alice,
			amount:      amount.One,
			expectedErr: ErrAccountNotRegistered,
		},
		{
			name:        "insufficient balance",
			sender:      alice,
			receiver:    bob,
			amount:      amount.New(101),
			expectedErr: ErrInsufficientBalance,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.TODO()
			l, view, events := newTestLedger(t, alice, bob)
			require.NoError(l.Deposit(ctx, alice, amount.New(100)))

			memo := "memo"
			err := l.Transfer(ctx, tt.sender, tt.receiver, tt.amount, &memo)
			require.ErrorIs(err, tt.expectedErr)
			requireConservation(t, view, alice, bob)
			if tt.expectedErr != nil {
				require.Empty(events.Drain())
				return
			}

			bal, err := BalanceOf(ctx, view, tt.receiver)
			require.NoError(err)
			require.Equal(tt.amount, bal)
			require.Equal([]event.Event{event.NewTransfer(tt.sender, tt.receiver, tt.amount, &memo)}, events.Drain())
		})
	}
}

func TestMintBurn(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	l, view, events := newTestLedger(t, alice)

	memo := "Initial tokens supply is minted"
	require.NoError(l.Mint(ctx, alice, amount.New(1_000), &memo))
	require.NoError(l.Burn(ctx, alice, amount.New(400), nil))
	require.ErrorIs(l.Burn(ctx, alice, amount.New(601), nil), ErrInsufficientBalance)

	supply, err := TotalSupply(ctx, view)
	require.NoError(err)
	require.Equal(amount.New(600), supply)
	requireConservation(t, view, alice)

	require.Equal([]event.Event{
		event.NewMint(alice, amount.New(1_000), &memo),
		event.NewBurn(alice, amount.New(400), nil),
	}, events.Drain())
}

func TestUnregisteredBalanceIsZero(t *testing.T) {
	require := require.New(t)
	_, view, _ := newTestLedger(t)

	bal, err := BalanceOf(context.TODO(), view, carol)
	require.NoError(err)
	require.True(bal.IsZero())
}

func TestNotInitialized(t *testing.T) {
	require := require.New(t)
	ts, err := tstate.New(memdb.New(), storage.TStateConfig())
	require.NoError(err)

	_, err = TotalSupply(context.TODO(), ts.NewView())
	require.ErrorIs(err, ErrNotInitialized)
}
