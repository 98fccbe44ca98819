// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package contract exposes the public operations of the token ledger.
// Every mutating operation runs atomically against a fresh view of state,
// is charged for the storage it adds, and only publishes its events once
// its changes are committed.
package contract

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/event"
	"github.com/ava-labs/ftledger/ledger"
	"github.com/ava-labs/ftledger/metadata"
	"github.com/ava-labs/ftledger/meter"
	"github.com/ava-labs/ftledger/notify"
	"github.com/ava-labs/ftledger/registry"
	"github.com/ava-labs/ftledger/storage"
	"github.com/ava-labs/ftledger/transfer"
	"github.com/ava-labs/ftledger/tstate"
)

// InitialSupplyMemo is attached to the mint event emitted by Init.
const InitialSupplyMemo = "Initial tokens supply is minted"

type Options struct {
	Config        Config
	Log           logging.Logger
	Tracer        trace.Tracer
	Environment   Environment
	Resolver      notify.Resolver
	Subscriptions []event.Subscription[event.Event]
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

type Contract struct {
	log      logging.Logger
	tracer   trace.Tracer
	env      Environment
	subs     []event.Subscription[event.Event]
	clock    func() time.Time
	pricing  meter.Pricing
	meter    *meter.Meter
	notifier *transfer.Notifier
	bounds   registry.StorageBalanceBounds

	registry *prometheus.Registry
	metrics  *metrics

	// lock serializes operations: writers hold it exclusively, readers
	// share it.
	lock   sync.RWMutex
	ts     *tstate.TState
	closed bool
}

func newContract(db tstate.Database, opts Options) (*Contract, error) {
	if opts.Log == nil {
		opts.Log = logging.NoLog{}
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Noop
	}
	if opts.Resolver == nil {
		opts.Resolver = notify.NewRouter()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Environment == nil {
		return nil, ErrMissingEnvironment
	}
	m, err := meter.New(opts.Config.Pricing)
	if err != nil {
		return nil, err
	}
	bounds, err := registry.Bounds(opts.Config.Pricing)
	if err != nil {
		return nil, err
	}
	ts, err := tstate.New(db, storage.TStateConfig())
	if err != nil {
		return nil, err
	}
	r, metrics, err := newMetrics()
	if err != nil {
		return nil, err
	}
	return &Contract{
		log:      opts.Log,
		tracer:   opts.Tracer,
		env:      opts.Environment,
		subs:     opts.Subscriptions,
		clock:    opts.Clock,
		pricing:  opts.Config.Pricing,
		meter:    m,
		notifier: transfer.NewNotifier(opts.Log, opts.Resolver, opts.Config.NotifyTimeout),
		bounds:   bounds,
		registry: r,
		metrics:  metrics,
		ts:       ts,
	}, nil
}

// Init creates a new ledger in [db]: [owner] is registered and receives
// the entire [totalSupply].
func Init(
	ctx context.Context,
	db tstate.Database,
	opts Options,
	owner account.ID,
	totalSupply amount.U128,
	md *metadata.Metadata,
) (*Contract, error) {
	c, err := newContract(db, opts)
	if err != nil {
		return nil, err
	}
	ctx, span := c.tracer.Start(ctx, "Contract.Init")
	defer span.End()

	if err := md.Validate(); err != nil {
		return nil, err
	}
	view := c.ts.NewView()
	_, initialized, err := storage.GetTotalSupply(ctx, view)
	if err != nil {
		return nil, err
	}
	if initialized {
		return nil, ErrAlreadyInitialized
	}

	events := &event.Buffer{}
	l := ledger.New(view, events)
	r, err := registry.New(view, l, c.pricing)
	if err != nil {
		return nil, err
	}
	memo := InitialSupplyMemo
	if err := storage.SetMetadata(ctx, view, md); err != nil {
		return nil, err
	}
	if err := storage.SetTotalSupply(ctx, view, amount.Zero); err != nil {
		return nil, err
	}
	if _, _, err := r.Register(ctx, owner, c.bounds.Min); err != nil {
		return nil, err
	}
	if err := l.Mint(ctx, owner, totalSupply, &memo); err != nil {
		return nil, err
	}
	if err := view.Commit(ctx); err != nil {
		return nil, err
	}
	c.publish(ctx, events)
	c.metrics.storageUsage.Set(float64(c.ts.Usage()))
	c.log.Info("initialized ledger",
		zap.Stringer("owner", owner),
		zap.Stringer("totalSupply", totalSupply),
		zap.String("symbol", md.Symbol),
		zap.Uint64("usage", c.ts.Usage()),
	)
	return c, nil
}

// Open loads an existing ledger from [db]. Transfer calls that were still
// awaiting their receiver when the ledger was last closed are resolved as
// if the receiver had rejected them.
func Open(ctx context.Context, db tstate.Database, opts Options) (*Contract, error) {
	c, err := newContract(db, opts)
	if err != nil {
		return nil, err
	}
	ctx, span := c.tracer.Start(ctx, "Contract.Open")
	defer span.End()

	view := c.ts.NewView()
	if _, err := ledger.TotalSupply(ctx, view); err != nil {
		return nil, err
	}
	if err := c.recover(ctx); err != nil {
		return nil, err
	}
	c.metrics.storageUsage.Set(float64(c.ts.Usage()))
	return c, nil
}

func (c *Contract) recover(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	index, err := storage.GetPendingIndex(ctx, c.ts.NewView())
	if err != nil {
		return err
	}
	for _, id := range index {
		view := c.ts.NewView()
		p, err := storage.GetPendingTransfer(ctx, view, id)
		if err != nil {
			return err
		}
		events := &event.Buffer{}
		res, err := transfer.Resolve(ctx, view, ledger.New(view, events), id, p.Amount)
		if err != nil {
			return fmt.Errorf("failed to recover pending transfer %s: %w", id, err)
		}
		if err := view.Commit(ctx); err != nil {
			return err
		}
		c.publish(ctx, events)
		c.metrics.recordOutcome(res.Outcome)
		c.log.Warn("resolved interrupted transfer call",
			zap.Stringer("id", id),
			zap.Stringer("state", transfer.State(p.State)),
			zap.Stringer("sender", p.Sender),
			zap.Stringer("receiver", p.Receiver),
			zap.Stringer("amount", p.Amount),
			zap.Stringer("outcome", res.Outcome),
		)
		c.onTokensBurned(p.Receiver, res.Burned)
	}
	return nil
}

// Metrics returns the registry holding the ledger metrics.
func (c *Contract) Metrics() *prometheus.Registry {
	return c.registry
}

// Close stops the contract and closes every subscription.
func (c *Contract) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return event.CloseAll(c.subs...)
}

// session is the state an operation acts on.
type session struct {
	view     *tstate.TStateView
	events   *event.Buffer
	ledger   *ledger.Ledger
	registry *registry.Registry
}

func (c *Contract) newSession() (*session, error) {
	view := c.ts.NewView()
	events := &event.Buffer{}
	l := ledger.New(view, events)
	r, err := registry.New(view, l, c.pricing)
	if err != nil {
		return nil, err
	}
	return &session{
		view:     view,
		events:   events,
		ledger:   l,
		registry: r,
	}, nil
}

// execute runs [op] as a single metered operation paid for by [call]. On
// success the changes are committed and the buffered events are published.
// Whatever the outcome, the value owed to the caller is refunded.
func (c *Contract) execute(
	ctx context.Context,
	call Call,
	op func(ctx context.Context, s *session) error,
) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.closed {
		c.refund(ctx, call.Predecessor, call.Attached)
		return ErrClosed
	}
	s, err := c.newSession()
	if err != nil {
		c.refund(ctx, call.Predecessor, call.Attached)
		return err
	}
	settlement, err := c.meter.Measure(ctx, s.view, call.Attached, func(ctx context.Context) error {
		return op(ctx, s)
	})
	if err == nil {
		if err = s.view.Commit(ctx); err != nil {
			settlement = meter.Settlement{Refund: call.Attached}
		}
	}
	if err != nil {
		c.metrics.failedOperations.Inc()
		c.refund(ctx, call.Predecessor, settlement.Refund)
		return err
	}
	c.publish(ctx, s.events)
	c.metrics.storageUsage.Set(float64(c.ts.Usage()))
	c.refund(ctx, call.Predecessor, settlement.Refund)
	return nil
}

func (c *Contract) refund(ctx context.Context, to account.ID, amt amount.U128) {
	if amt.IsZero() {
		return
	}
	if err := c.env.Refund(ctx, to, amt); err != nil {
		c.metrics.refundFailures.Inc()
		c.log.Error("failed to refund",
			zap.Stringer("account", to),
			zap.Stringer("amount", amt),
			zap.Error(err),
		)
	}
}

func (c *Contract) publish(ctx context.Context, events *event.Buffer) {
	for _, e := range events.Drain() {
		if err := event.NotifyAll(ctx, e, c.subs...); err != nil {
			c.metrics.eventFailures.Inc()
			c.log.Warn("failed to deliver event",
				zap.String("event", string(e.Kind)),
				zap.Error(err),
			)
		}
	}
}

func (c *Contract) onAccountClosed(id account.ID, balance amount.U128) {
	c.log.Info(fmt.Sprintf("Closed @%s with %s", id, balance))
}

func (c *Contract) onTokensBurned(id account.ID, burned amount.U128) {
	if burned.IsZero() {
		return
	}
	c.log.Info(fmt.Sprintf("Account @%s burned %s", id, burned))
}

func requireOneUnit(call Call) error {
	if call.Attached.Cmp(amount.One) != 0 {
		return fmt.Errorf("%w: attached %s", ErrRequiresOneUnit, call.Attached)
	}
	return nil
}
