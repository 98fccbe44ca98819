// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package notify delivers transfer notifications to receiving accounts.
package notify

import (
	"context"
	"sync"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
)

//go:generate go run go.uber.org/mock/mockgen -package=${GOPACKAGE} -destination=mock_receiver.go . Receiver

// Receiver is the hook an account exposes to accept incoming transfers. It
// returns how much of [amt] it did not use; the ledger refunds that part to
// [sender].
type Receiver interface {
	OnTransfer(ctx context.Context, sender account.ID, amt amount.U128, msg string) (amount.U128, error)
}

// ReceiverFunc adapts a function to a Receiver.
type ReceiverFunc func(ctx context.Context, sender account.ID, amt amount.U128, msg string) (amount.U128, error)

func (f ReceiverFunc) OnTransfer(ctx context.Context, sender account.ID, amt amount.U128, msg string) (amount.U128, error) {
	return f(ctx, sender, amt, msg)
}

// Resolver finds the hook of an account.
type Resolver interface {
	Receiver(id account.ID) (Receiver, bool)
}

// Router is a Resolver backed by an in-memory table.
type Router struct {
	lock      sync.RWMutex
	receivers map[account.ID]Receiver
}

func NewRouter() *Router {
	return &Router{receivers: make(map[account.ID]Receiver)}
}

// Register sets the hook of [id], replacing any previous one.
func (r *Router) Register(id account.ID, receiver Receiver) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.receivers[id] = receiver
}

func (r *Router) Receiver(id account.ID) (Receiver, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	receiver, ok := r.receivers[id]
	return receiver, ok
}

// Len returns the number of registered hooks.
func (r *Router) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return len(r.receivers)
}
