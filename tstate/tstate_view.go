// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/ava-labs/ftledger/keys"
	"github.com/ava-labs/ftledger/state"
)

const defaultOps = 4

var _ state.Metered = (*TStateView)(nil)

type op struct {
	k string

	pastExists  bool
	pastV       []byte
	pastChanged bool

	usageDelta int64
}

type TStateView struct {
	ts                 *TState
	pendingChangedKeys map[string]maybe.Maybe[[]byte]

	// Ops is a record of all operations performed on [TState]. Tracking
	// operations allows for reverting state to a certain point-in-time.
	ops []*op

	usageDelta int64
	committed  bool
}

func (ts *TState) NewView() *TStateView {
	return &TStateView{
		ts:                 ts,
		pendingChangedKeys: make(map[string]maybe.Maybe[[]byte]),
		ops:                make([]*op, 0, defaultOps),
	}
}

// Rollback restores the TState to the ts.op[restorePoint] operation.
func (ts *TStateView) Rollback(_ context.Context, restorePoint int) {
	for i := len(ts.ops) - 1; i >= restorePoint; i-- {
		op := ts.ops[i]
		ts.usageDelta -= op.usageDelta

		// Remove all key changes from the view if the key was not previously
		// modified.
		if !op.pastChanged {
			delete(ts.pendingChangedKeys, op.k)
			continue
		}

		// The key was deleted earlier in this view.
		if !op.pastExists {
			ts.pendingChangedKeys[op.k] = maybe.Nothing[[]byte]()
			continue
		}

		ts.pendingChangedKeys[op.k] = maybe.Some(op.pastV)
	}
	ts.ops = ts.ops[:restorePoint]
}

// OpIndex returns the number of operations done on ts.
func (ts *TStateView) OpIndex() int {
	return len(ts.ops)
}

// Usage returns the storage usage that would be persisted if the view were
// committed now.
func (ts *TStateView) Usage() uint64 {
	usage := int64(ts.ts.usage) + ts.usageDelta
	if usage < 0 {
		// Only reachable if the persisted counter was tampered with.
		return 0
	}
	return uint64(usage)
}

// UsageDelta returns the change in storage usage since the view was created.
func (ts *TStateView) UsageDelta() int64 {
	return ts.usageDelta
}

// GetValue returns the value associated with [key] or
// [database.ErrNotFound].
func (ts *TStateView) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	v, _, exists, err := ts.getValue(ctx, string(key))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, database.ErrNotFound
	}
	return v, nil
}

func (ts *TStateView) getValue(_ context.Context, key string) ([]byte, bool, bool, error) {
	if v, ok := ts.pendingChangedKeys[key]; ok {
		if v.IsNothing() {
			return nil, true, false, nil
		}
		return v.Value(), true, true, nil
	}
	v, err := ts.ts.db.Get([]byte(key))
	switch {
	case errors.Is(err, database.ErrNotFound):
		return nil, false, false, nil
	case err != nil:
		return nil, false, false, err
	}
	return v, false, true, nil
}

// Insert sets or updates [key] to [value].
//
// Any bytes passed into [Insert] will be consumed by [TStateView] and should
// not be modified/referenced after this call.
func (ts *TStateView) Insert(ctx context.Context, key []byte, value []byte) error {
	if ts.committed {
		return ErrViewCommitted
	}
	if !keys.VerifyValue(key, value) {
		return fmt.Errorf("%w: key=%x valueLen=%d", ErrInvalidKeyValue, key, len(value))
	}
	k := string(key)
	past, changed, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return err
	}
	var delta int64
	if ts.ts.metered(key) {
		if exists {
			delta = int64(len(value)) - int64(len(past))
		} else {
			delta = ts.ts.footprint(key, value)
		}
	}
	ts.usageDelta += delta
	ts.pendingChangedKeys[k] = maybe.Some(value)
	ts.ops = append(ts.ops, &op{
		k: k,

		pastExists:  exists,
		pastV:       past,
		pastChanged: changed,

		usageDelta: delta,
	})
	return nil
}

// Remove deletes [key]. Removing a missing key is a no-op.
func (ts *TStateView) Remove(ctx context.Context, key []byte) error {
	if ts.committed {
		return ErrViewCommitted
	}
	k := string(key)
	past, changed, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	var delta int64
	if ts.ts.metered(key) {
		delta = -ts.ts.footprint(key, past)
	}
	ts.usageDelta += delta
	ts.pendingChangedKeys[k] = maybe.Nothing[[]byte]()
	ts.ops = append(ts.ops, &op{
		k: k,

		pastExists:  true,
		pastV:       past,
		pastChanged: changed,

		usageDelta: delta,
	})
	return nil
}

func (ts *TStateView) PendingChanges() int {
	return len(ts.pendingChangedKeys)
}

// Commit atomically writes all pending changes and the updated usage
// counter to the underlying database. The view cannot be modified
// afterwards.
func (ts *TStateView) Commit(_ context.Context) error {
	if ts.committed {
		return ErrViewCommitted
	}
	batch := ts.ts.db.NewBatch()
	for k, v := range ts.pendingChangedKeys {
		var err error
		if v.IsNothing() {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), v.Value())
		}
		if err != nil {
			return err
		}
	}
	usage := ts.Usage()
	if err := batch.Put(ts.ts.cfg.UsageKey, binary.BigEndian.AppendUint64(nil, usage)); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}
	ts.ts.usage = usage
	ts.committed = true
	return nil
}
