// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package meter charges operations for the storage they add and credits
// them for the storage they free.
package meter

import (
	"context"
	"fmt"

	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/state"
)

const (
	DefaultUnitBytes = 1
)

// DefaultCostPerUnit is 10^19 native units per byte.
var DefaultCostPerUnit = amount.MustParse("10000000000000000000")

type Pricing struct {
	CostPerUnit amount.U128 `json:"costPerUnit"`
	UnitBytes   uint64      `json:"unitBytes"`
}

func DefaultPricing() Pricing {
	return Pricing{
		CostPerUnit: DefaultCostPerUnit,
		UnitBytes:   DefaultUnitBytes,
	}
}

func (p Pricing) Verify() error {
	if p.UnitBytes == 0 {
		return fmt.Errorf("%w: unit bytes must be positive", ErrInvalidPricing)
	}
	return nil
}

// Price returns ceil([bytes] * CostPerUnit / UnitBytes). Charges and credits
// use the same rounding, so adding and later freeing a record nets to zero.
func (p Pricing) Price(bytes uint64) (amount.U128, error) {
	return p.CostPerUnit.MulDivCeil(bytes, p.UnitBytes)
}

// Settlement is the outcome of a metered operation.
type Settlement struct {
	// Delta is the change in storage usage in bytes.
	Delta int64
	// Required is the value kept to pay for added storage.
	Required amount.U128
	// Refund is the value owed back to the caller.
	Refund amount.U128
}

// Op is a unit of work run against a metered view.
type Op func(ctx context.Context) error

type Meter struct {
	pricing Pricing
}

func New(pricing Pricing) (*Meter, error) {
	if err := pricing.Verify(); err != nil {
		return nil, err
	}
	return &Meter{pricing: pricing}, nil
}

func (m *Meter) Pricing() Pricing {
	return m.pricing
}

// Measure runs [op] against [view] and settles the change in storage usage
// against [attached]. If [op] fails, panics or does not carry enough value
// to pay for the storage it adds, every change it made is rolled back and
// the whole attached value is refunded.
func (m *Meter) Measure(
	ctx context.Context,
	view state.Metered,
	attached amount.U128,
	op Op,
) (Settlement, error) {
	before := view.Usage()
	restorePoint := view.OpIndex()
	failed := Settlement{Refund: attached}

	if err := run(ctx, op); err != nil {
		view.Rollback(ctx, restorePoint)
		return failed, err
	}

	after := view.Usage()
	if after > before {
		delta := after - before
		required, err := m.pricing.Price(delta)
		if err != nil {
			view.Rollback(ctx, restorePoint)
			return failed, err
		}
		if attached.Lt(required) {
			view.Rollback(ctx, restorePoint)
			return failed, fmt.Errorf(
				"%w: %d bytes require %s, attached %s",
				ErrInsufficientStorageDeposit,
				delta,
				required,
				attached,
			)
		}
		refund, err := attached.Sub(required)
		if err != nil {
			view.Rollback(ctx, restorePoint)
			return failed, err
		}
		return Settlement{Delta: int64(delta), Required: required, Refund: refund}, nil
	}

	freed := before - after
	credit, err := m.pricing.Price(freed)
	if err != nil {
		view.Rollback(ctx, restorePoint)
		return failed, err
	}
	refund, err := attached.Add(credit)
	if err != nil {
		view.Rollback(ctx, restorePoint)
		return failed, err
	}
	return Settlement{Delta: -int64(freed), Refund: refund}, nil
}

func run(ctx context.Context, op Op) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrOperationPanicked, r)
		}
	}()
	return op(ctx)
}
