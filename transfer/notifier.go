// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/notify"
	"github.com/ava-labs/ftledger/storage"
)

const DefaultNotifyTimeout = 5 * time.Second

// Notifier calls the receiver hook of a pending transfer.
type Notifier struct {
	log      logging.Logger
	resolver notify.Resolver
	timeout  time.Duration
}

func NewNotifier(log logging.Logger, resolver notify.Resolver, timeout time.Duration) *Notifier {
	return &Notifier{
		log:      log,
		resolver: resolver,
		timeout:  timeout,
	}
}

type hookResult struct {
	unused amount.U128
	err    error
}

// Notify delivers [p] to its receiver and returns the amount to treat as
// unused. Any failure of the hook (a missing hook, an error, a panic or a
// timeout) leaves the whole amount unused; the failure is returned
// alongside for reporting.
func (n *Notifier) Notify(ctx context.Context, p *storage.PendingTransfer, msg string) (amount.U128, error) {
	receiver, ok := n.resolver.Receiver(p.Receiver)
	if !ok {
		return p.Amount, fmt.Errorf("%w: %s", ErrNoReceiver, p.Receiver)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	done := make(chan hookResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- hookResult{err: fmt.Errorf("%w: %v", ErrReceiverPanicked, r)}
			}
		}()
		unused, err := receiver.OnTransfer(ctx, p.Sender, p.Amount, msg)
		done <- hookResult{unused: unused, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			n.log.Debug("transfer hook failed",
				zap.Stringer("id", p.ID),
				zap.Stringer("receiver", p.Receiver),
				zap.Error(res.err),
			)
			return p.Amount, res.err
		}
		return amount.Min(res.unused, p.Amount), nil
	case <-ctx.Done():
		n.log.Debug("transfer hook timed out",
			zap.Stringer("id", p.ID),
			zap.Stringer("receiver", p.Receiver),
			zap.Duration("timeout", n.timeout),
		)
		return p.Amount, fmt.Errorf("%w: %w", ErrNotifyTimeout, ctx.Err())
	}
}
