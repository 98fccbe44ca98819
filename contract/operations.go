// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/event"
	"github.com/ava-labs/ftledger/ledger"
	"github.com/ava-labs/ftledger/metadata"
	"github.com/ava-labs/ftledger/registry"
	"github.com/ava-labs/ftledger/storage"
	"github.com/ava-labs/ftledger/transfer"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// Transfer moves [amt] from the caller to [receiver]. Exactly one unit must
// be attached.
func (c *Contract) Transfer(
	ctx context.Context,
	call Call,
	receiver account.ID,
	amt amount.U128,
	memo *string,
) error {
	ctx, span := c.tracer.Start(ctx, "Contract.Transfer",
		oteltrace.WithAttributes(
			attribute.Stringer("sender", call.Predecessor),
			attribute.Stringer("receiver", receiver),
			attribute.Stringer("amount", amt),
		),
	)
	defer span.End()

	err := c.execute(ctx, call, func(ctx context.Context, s *session) error {
		if err := requireOneUnit(call); err != nil {
			return err
		}
		if err := transfer.VerifyMemo(memo); err != nil {
			return err
		}
		return s.ledger.Transfer(ctx, call.Predecessor, receiver, amt, memo)
	})
	if err != nil {
		return err
	}
	c.metrics.transfers.Inc()
	return nil
}

// TransferCall moves [amt] to [receiver] and hands [msg] to the receiver's
// hook. Whatever the hook reports as unused is returned to the caller. The
// amount the receiver finally kept is returned.
//
// The hook runs without holding the ledger lock, so other operations may
// observe the optimistic balances while it is pending.
func (c *Contract) TransferCall(
	ctx context.Context,
	call Call,
	receiver account.ID,
	amt amount.U128,
	memo *string,
	msg string,
) (amount.U128, error) {
	ctx, span := c.tracer.Start(ctx, "Contract.TransferCall",
		oteltrace.WithAttributes(
			attribute.Stringer("sender", call.Predecessor),
			attribute.Stringer("receiver", receiver),
			attribute.Stringer("amount", amt),
			attribute.Int("msgLen", len(msg)),
		),
	)
	defer span.End()

	var pending *storage.PendingTransfer
	err := c.execute(ctx, call, func(ctx context.Context, s *session) error {
		if err := requireOneUnit(call); err != nil {
			return err
		}
		p, err := transfer.Initiate(ctx, s.view, s.ledger, call.Predecessor, receiver, amt, memo, msg, c.clock().UnixMilli())
		if err != nil {
			return err
		}
		pending = p
		return nil
	})
	if err != nil {
		return amount.Zero, err
	}
	c.metrics.transferCalls.Inc()
	c.metrics.pendingTransfers.Inc()

	if err := c.await(ctx, pending); err != nil {
		c.log.Warn("failed to mark transfer call as awaiting receipt",
			zap.Stringer("id", pending.ID),
			zap.Error(err),
		)
	}
	start := time.Now()
	unused, err := c.notifier.Notify(ctx, pending, msg)
	c.metrics.notifyLatency.Observe(float64(time.Since(start)))
	if err != nil {
		c.metrics.notifyFailures.Inc()
		c.log.Debug("treating transfer as unused",
			zap.Stringer("id", pending.ID),
			zap.Error(err),
		)
	}

	// Resolution must complete even if the caller has gone away.
	res, err := c.resolve(context.WithoutCancel(ctx), pending, unused)
	if err != nil {
		return amount.Zero, err
	}
	return res.Used, nil
}

// await records that the receiver of [p] is about to be notified.
func (c *Contract) await(ctx context.Context, p *storage.PendingTransfer) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	view := c.ts.NewView()
	if err := transfer.Await(ctx, view, p.ID); err != nil {
		return err
	}
	if err := view.Commit(ctx); err != nil {
		return err
	}
	p.State = uint8(transfer.AwaitingReceipt)
	return nil
}

func (c *Contract) resolve(ctx context.Context, p *storage.PendingTransfer, unused amount.U128) (*transfer.Result, error) {
	ctx, span := c.tracer.Start(ctx, "Contract.resolve",
		oteltrace.WithAttributes(
			attribute.Stringer("id", p.ID),
			attribute.Stringer("unused", unused),
		),
	)
	defer span.End()

	c.lock.Lock()
	defer c.lock.Unlock()

	view := c.ts.NewView()
	events := &event.Buffer{}
	res, err := transfer.Resolve(ctx, view, ledger.New(view, events), p.ID, unused)
	if err == nil {
		err = view.Commit(ctx)
	}
	if err != nil {
		// The record stays in place and is resolved when the ledger is
		// next opened.
		c.log.Error("failed to resolve transfer call",
			zap.Stringer("id", p.ID),
			zap.Error(err),
		)
		return nil, err
	}
	c.publish(ctx, events)
	c.metrics.storageUsage.Set(float64(c.ts.Usage()))
	c.metrics.pendingTransfers.Dec()
	c.metrics.recordOutcome(res.Outcome)
	c.onTokensBurned(p.Receiver, res.Burned)
	return res, nil
}

// StorageDeposit registers [id], or the caller if [id] is nil, paying with
// the attached value. Value beyond the minimum stake is refunded, as is the
// whole attached value if the account is already registered.
//
// Accounts never stake more than the minimum, so [registrationOnly] has no
// effect.
func (c *Contract) StorageDeposit(
	ctx context.Context,
	call Call,
	id *account.ID,
	registrationOnly *bool,
) (registry.StorageBalance, error) {
	target := call.Predecessor
	if id != nil {
		target = *id
	}
	ctx, span := c.tracer.Start(ctx, "Contract.StorageDeposit",
		oteltrace.WithAttributes(
			attribute.Stringer("account", target),
			attribute.Stringer("attached", call.Attached),
			attribute.Bool("registrationOnly", registrationOnly != nil && *registrationOnly),
		),
	)
	defer span.End()

	var (
		bal        registry.StorageBalance
		registered bool
	)
	err := c.execute(ctx, call, func(ctx context.Context, s *session) error {
		var err error
		bal, registered, err = s.registry.Register(ctx, target, call.Attached)
		return err
	})
	if err != nil {
		return registry.StorageBalance{}, err
	}
	if registered {
		c.metrics.registrations.Inc()
		c.log.Debug("registered account",
			zap.Stringer("account", target),
			zap.Stringer("stake", bal.Total),
		)
	}
	return bal, nil
}

// StorageWithdraw returns the storage balance of the caller. Exactly one
// unit must be attached.
func (c *Contract) StorageWithdraw(ctx context.Context, call Call, amt *amount.U128) (registry.StorageBalance, error) {
	ctx, span := c.tracer.Start(ctx, "Contract.StorageWithdraw",
		oteltrace.WithAttributes(
			attribute.Stringer("account", call.Predecessor),
		),
	)
	defer span.End()

	var bal registry.StorageBalance
	err := c.execute(ctx, call, func(ctx context.Context, s *session) error {
		if err := requireOneUnit(call); err != nil {
			return err
		}
		var err error
		bal, err = s.registry.Withdraw(ctx, call.Predecessor, amt)
		return err
	})
	return bal, err
}

// StorageUnregister removes the caller and refunds its stake. An account
// holding tokens is only removed if [force] is set, in which case its
// balance is burned. Exactly one unit must be attached.
func (c *Contract) StorageUnregister(ctx context.Context, call Call, force *bool) (bool, error) {
	forced := force != nil && *force
	ctx, span := c.tracer.Start(ctx, "Contract.StorageUnregister",
		oteltrace.WithAttributes(
			attribute.Stringer("account", call.Predecessor),
			attribute.Bool("force", forced),
		),
	)
	defer span.End()

	var burned amount.U128
	err := c.execute(ctx, call, func(ctx context.Context, s *session) error {
		if err := requireOneUnit(call); err != nil {
			return err
		}
		var err error
		burned, err = s.registry.Unregister(ctx, call.Predecessor, forced)
		return err
	})
	if err != nil {
		return false, err
	}
	c.metrics.unregistrations.Inc()
	c.onAccountClosed(call.Predecessor, burned)
	return true, nil
}

func (c *Contract) StorageBalanceBounds(context.Context) registry.StorageBalanceBounds {
	return c.bounds
}

// StorageBalanceOf returns nil if [id] is not registered.
func (c *Contract) StorageBalanceOf(ctx context.Context, id account.ID) (*registry.StorageBalance, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return registry.StorageBalanceOf(ctx, c.ts.NewView(), id)
}

func (c *Contract) TotalSupply(ctx context.Context) (amount.U128, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return ledger.TotalSupply(ctx, c.ts.NewView())
}

// BalanceOf returns zero for accounts that are not registered.
func (c *Contract) BalanceOf(ctx context.Context, id account.ID) (amount.U128, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return ledger.BalanceOf(ctx, c.ts.NewView(), id)
}

func (c *Contract) Metadata(ctx context.Context) (*metadata.Metadata, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	md, ok, err := storage.GetMetadata(ctx, c.ts.NewView())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotInitialized
	}
	return md, nil
}

// PendingTransfers returns the transfer calls awaiting their receiver, in
// the order they were made.
func (c *Contract) PendingTransfers(ctx context.Context) ([]*storage.PendingTransfer, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	view := c.ts.NewView()
	index, err := storage.GetPendingIndex(ctx, view)
	if err != nil {
		return nil, err
	}
	pending := make([]*storage.PendingTransfer, 0, len(index))
	for _, id := range index {
		p, err := storage.GetPendingTransfer(ctx, view, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load pending transfer %s: %w", id, err)
		}
		pending = append(pending, p)
	}
	return pending, nil
}
