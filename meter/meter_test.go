// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package meter

import (
	"context"
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/keys"
	"github.com/ava-labs/ftledger/tstate"
)

const overhead = 40

var (
	errTest = errors.New("test")

	key   = keys.EncodeChunks([]byte("account"), 1)
	value = make([]byte, 32)

	// footprint of [key]/[value]
	entryBytes = uint64(len(key) + len(value) + overhead)
)

func newView(t *testing.T) *tstate.TStateView {
	ts, err := tstate.New(memdb.New(), tstate.Config{
		UsageKey:      []byte{0xff, 0x00, 0x01},
		EntryOverhead: overhead,
	})
	require.NoError(t, err)
	return ts.NewView()
}

func newMeter(t *testing.T, cost uint64, unitBytes uint64) *Meter {
	m, err := New(Pricing{CostPerUnit: amount.New(cost), UnitBytes: unitBytes})
	require.NoError(t, err)
	return m
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name      string
		cost      uint64
		unitBytes uint64
		bytes     uint64
		expected  amount.U128
	}{
		{name: "zero bytes", cost: 10, unitBytes: 1, bytes: 0, expected: amount.Zero},
		{name: "per byte", cost: 10, unitBytes: 1, bytes: 7, expected: amount.New(70)},
		{name: "exact unit", cost: 10, unitBytes: 64, bytes: 64, expected: amount.New(10)},
		{name: "rounds up", cost: 10, unitBytes: 64, bytes: 65, expected: amount.New(11)},
		{name: "partial unit", cost: 10, unitBytes: 64, bytes: 1, expected: amount.New(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			p := Pricing{CostPerUnit: amount.New(tt.cost), UnitBytes: tt.unitBytes}
			price, err := p.Price(tt.bytes)
			require.NoError(err)
			require.Equal(tt.expected, price)
		})
	}
}

func TestDefaultPricing(t *testing.T) {
	require := require.New(t)
	p := DefaultPricing()
	require.NoError(p.Verify())
	price, err := p.Price(100)
	require.NoError(err)
	require.Equal(amount.MustParse("1000000000000000000000"), price)

	_, err = New(Pricing{CostPerUnit: amount.One})
	require.ErrorIs(err, ErrInvalidPricing)
}

func TestMeasureStorageAccounting(t *testing.T) {
	required := entryBytes * 10
	tests := []struct {
		name           string
		attached       uint64
		expectedErr    error
		expectedRefund amount.U128
	}{
		{
			name:           "one below minimum",
			attached:       required - 1,
			expectedErr:    ErrInsufficientStorageDeposit,
			expectedRefund: amount.New(required - 1),
		},
		{
			name:           "exact minimum",
			attached:       required,
			expectedRefund: amount.Zero,
		},
		{
			name:           "minimum plus k",
			attached:       required + 5,
			expectedRefund: amount.New(5),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.TODO()
			view := newView(t)
			m := newMeter(t, 10, 1)

			s, err := m.Measure(ctx, view, amount.New(tt.attached), func(ctx context.Context) error {
				return view.Insert(ctx, key, value)
			})
			require.ErrorIs(err, tt.expectedErr)
			require.Equal(tt.expectedRefund, s.Refund)

			_, getErr := view.GetValue(ctx, key)
			if tt.expectedErr != nil {
				require.ErrorIs(getErr, database.ErrNotFound)
				require.Zero(view.Usage())
				require.Zero(view.OpIndex())
				return
			}
			require.NoError(getErr)
			require.Equal(int64(entryBytes), s.Delta)
			require.Equal(amount.New(required), s.Required)
		})
	}
}

func TestMeasureFreedStorageIsCredited(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	view := newView(t)
	m := newMeter(t, 10, 64)

	added, err := m.Measure(ctx, view, amount.New(1_000), func(ctx context.Context) error {
		return view.Insert(ctx, key, value)
	})
	require.NoError(err)

	freed, err := m.Measure(ctx, view, amount.One, func(ctx context.Context) error {
		return view.Remove(ctx, key)
	})
	require.NoError(err)
	require.Equal(-added.Delta, freed.Delta)

	// The credit for freed storage mirrors the charge, even when the price
	// was rounded up.
	credit, err := freed.Refund.Sub(amount.One)
	require.NoError(err)
	require.Equal(added.Required, credit)
}

func TestMeasureNoStorageChange(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	view := newView(t)
	m := newMeter(t, 10, 1)

	s, err := m.Measure(ctx, view, amount.New(3), func(context.Context) error {
		return nil
	})
	require.NoError(err)
	require.Zero(s.Delta)
	require.Equal(amount.New(3), s.Refund)
}

func TestMeasureRollsBackOnError(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	view := newView(t)
	m := newMeter(t, 10, 1)

	s, err := m.Measure(ctx, view, amount.New(10_000), func(ctx context.Context) error {
		if err := view.Insert(ctx, key, value); err != nil {
			return err
		}
		return errTest
	})
	require.ErrorIs(err, errTest)
	require.Equal(amount.New(10_000), s.Refund)
	require.Zero(view.OpIndex())
	require.Zero(view.Usage())
}

func TestMeasureRecoversPanic(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	view := newView(t)
	m := newMeter(t, 10, 1)

	s, err := m.Measure(ctx, view, amount.One, func(ctx context.Context) error {
		if err := view.Insert(ctx, key, value); err != nil {
			return err
		}
		panic("boom")
	})
	require.ErrorIs(err, ErrOperationPanicked)
	require.Equal(amount.One, s.Refund)
	require.Zero(view.OpIndex())
}

func TestMeasureKeepsEarlierChanges(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	view := newView(t)
	m := newMeter(t, 10, 1)

	other := keys.EncodeChunks([]byte("other"), 1)
	require.NoError(view.Insert(ctx, other, value))

	_, err := m.Measure(ctx, view, amount.Zero, func(ctx context.Context) error {
		return view.Insert(ctx, key, value)
	})
	require.ErrorIs(err, ErrInsufficientStorageDeposit)
	require.Equal(1, view.OpIndex())
	_, err = view.GetValue(ctx, other)
	require.NoError(err)
}
