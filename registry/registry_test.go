// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/event"
	"github.com/ava-labs/ftledger/ledger"
	"github.com/ava-labs/ftledger/meter"
	"github.com/ava-labs/ftledger/storage"
	"github.com/ava-labs/ftledger/tstate"
)

var (
	alice = account.MustParse("alice")
	bob   = account.MustParse("bob")
)

type testEnv struct {
	view     *tstate.TStateView
	events   *event.Buffer
	ledger   *ledger.Ledger
	registry *Registry
	meter    *meter.Meter
}

func newTestEnv(t *testing.T) *testEnv {
	require := require.New(t)

	ts, err := tstate.New(memdb.New(), storage.TStateConfig())
	require.NoError(err)
	view := ts.NewView()
	require.NoError(storage.SetTotalSupply(context.TODO(), view, amount.Zero))

	pricing := meter.DefaultPricing()
	m, err := meter.New(pricing)
	require.NoError(err)
	events := &event.Buffer{}
	l := ledger.New(view, events)
	r, err := New(view, l, pricing)
	require.NoError(err)
	return &testEnv{view: view, events: events, ledger: l, registry: r, meter: m}
}

func (e *testEnv) register(ctx context.Context, id account.ID, attached amount.U128) (meter.Settlement, error) {
	return e.meter.Measure(ctx, e.view, attached, func(ctx context.Context) error {
		_, _, err := e.registry.Register(ctx, id, attached)
		return err
	})
}

func TestBounds(t *testing.T) {
	require := require.New(t)

	bounds, err := Bounds(meter.DefaultPricing())
	require.NoError(err)
	expected, err := meter.DefaultCostPerUnit.MulDivCeil(storage.AccountStorageUsage, 1)
	require.NoError(err)
	require.Equal(expected, bounds.Min)
	require.NotNil(bounds.Max)
	require.Equal(bounds.Min, *bounds.Max)
}

func TestRegisterStorageAccounting(t *testing.T) {
	minBound, err := Bounds(meter.DefaultPricing())
	require.NoError(t, err)
	minusOne, err := minBound.Min.Sub(amount.One)
	require.NoError(t, err)
	plusK, err := minBound.Min.Add(amount.New(12_345))
	require.NoError(t, err)

	tests := []struct {
		name           string
		attached       amount.U128
		expectedErr    error
		expectedRefund amount.U128
	}{
		{
			name:           "min minus one",
			attached:       minusOne,
			expectedErr:    meter.ErrInsufficientStorageDeposit,
			expectedRefund: minusOne,
		},
		{
			name:           "exactly min",
			attached:       minBound.Min,
			expectedRefund: amount.Zero,
		},
		{
			name:           "min plus k",
			attached:       plusK,
			expectedRefund: amount.New(12_345),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.TODO()
			env := newTestEnv(t)

			s, err := env.register(ctx, alice, tt.attached)
			require.ErrorIs(err, tt.expectedErr)
			require.Equal(tt.expectedRefund, s.Refund)

			bal, err := StorageBalanceOf(ctx, env.view, alice)
			require.NoError(err)
			if tt.expectedErr != nil {
				require.Nil(bal)
				return
			}
			require.Equal(&StorageBalance{Total: minBound.Min, Available: amount.Zero}, bal)
			require.Equal(minBound.Min, s.Required)
		})
	}
}

func TestRegisterTwiceRefundsEverything(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	env := newTestEnv(t)
	bounds := env.registry.Bounds()

	_, err := env.register(ctx, alice, bounds.Min)
	require.NoError(err)

	s, err := env.register(ctx, alice, bounds.Min)
	require.NoError(err)
	require.Equal(bounds.Min, s.Refund)
	require.Zero(s.Delta)

	bal, registered, err := env.registry.Register(ctx, alice, amount.Zero)
	require.NoError(err)
	require.False(registered)
	require.Equal(bounds.Min, bal.Total)
}

func TestUnregister(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	env := newTestEnv(t)
	bounds := env.registry.Bounds()

	_, err := env.register(ctx, alice, bounds.Min)
	require.NoError(err)
	require.NoError(env.ledger.Deposit(ctx, alice, amount.New(10)))

	_, err = env.registry.Unregister(ctx, bob, false)
	require.ErrorIs(err, ledger.ErrAccountNotRegistered)

	_, err = env.registry.Unregister(ctx, alice, false)
	require.ErrorIs(err, ErrNonZeroBalance)

	// Forcing burns the balance and frees the stake.
	s, err := env.meter.Measure(ctx, env.view, amount.One, func(ctx context.Context) error {
		burned, err := env.registry.Unregister(ctx, alice, true)
		if err != nil {
			return err
		}
		require.Equal(amount.New(10), burned)
		return nil
	})
	require.NoError(err)
	expectedRefund, err := bounds.Min.Add(amount.One)
	require.NoError(err)
	require.Equal(expectedRefund, s.Refund)

	supply, err := ledger.TotalSupply(ctx, env.view)
	require.NoError(err)
	require.True(supply.IsZero())
	require.Equal([]event.Event{event.NewBurn(alice, amount.New(10), nil)}, env.events.Drain())

	bal, err := StorageBalanceOf(ctx, env.view, alice)
	require.NoError(err)
	require.Nil(bal)
}

func TestUnregisterEmptyAccount(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	env := newTestEnv(t)

	_, err := env.register(ctx, bob, env.registry.Bounds().Min)
	require.NoError(err)
	burned, err := env.registry.Unregister(ctx, bob, false)
	require.NoError(err)
	require.True(burned.IsZero())
	require.Empty(env.events.Drain())
}

func TestWithdraw(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	env := newTestEnv(t)
	bounds := env.registry.Bounds()

	_, err := env.registry.Withdraw(ctx, alice, nil)
	require.ErrorIs(err, ledger.ErrAccountNotRegistered)

	_, err = env.register(ctx, alice, bounds.Min)
	require.NoError(err)

	bal, err := env.registry.Withdraw(ctx, alice, nil)
	require.NoError(err)
	require.Equal(StorageBalance{Total: bounds.Min, Available: amount.Zero}, bal)

	zero := amount.Zero
	_, err = env.registry.Withdraw(ctx, alice, &zero)
	require.NoError(err)

	one := amount.One
	_, err = env.registry.Withdraw(ctx, alice, &one)
	require.ErrorIs(err, ErrInsufficientAvailableBalance)
}
