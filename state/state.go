// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import "context"

// Immutable returns [database.ErrNotFound] from GetValue when [key] is
// missing.
type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Metered is a [Mutable] that tracks how many bytes of storage its entries
// occupy.
type Metered interface {
	Mutable

	// Usage returns the current storage usage in bytes, including changes
	// that are not committed yet.
	Usage() uint64
	// OpIndex returns a restore point for [Rollback].
	OpIndex() int
	// Rollback reverts every change made after [restorePoint].
	Rollback(ctx context.Context, restorePoint int)
}
