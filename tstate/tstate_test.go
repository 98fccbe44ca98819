// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/ftledger/keys"
)

const testOverhead = 40

var (
	usageKey = []byte{0xff}

	key1 = keys.EncodeChunks([]byte("key1"), 1)
	key2 = keys.EncodeChunks([]byte("key2"), 2)

	unmeteredKey = keys.EncodeChunks([]byte{0xee}, 1)

	testVal = []byte("value")
)

func newTestTState(t *testing.T, db Database) *TState {
	ts, err := New(db, Config{
		UsageKey: usageKey,
		Metered: func(key []byte) bool {
			return key[0] != 0xee
		},
		EntryOverhead: testOverhead,
	})
	require.NoError(t, err)
	return ts
}

func footprint(key, value []byte) uint64 {
	return uint64(len(key) + len(value) + testOverhead)
}

func TestGetValueMissing(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := newTestTState(t, memdb.New())

	tsv := ts.NewView()
	val, err := tsv.GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound)
	require.Nil(val)
}

func TestInsertNew(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := memdb.New()
	ts := newTestTState(t, db)

	tsv := ts.NewView()
	require.NoError(tsv.Insert(ctx, key1, testVal))
	val, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal(testVal, val)
	require.Equal(1, tsv.OpIndex(), "insert was not added as an operation")
	require.Equal(footprint(key1, testVal), tsv.Usage())
	require.Zero(ts.Usage(), "usage changed before commit")

	// Nothing written before commit
	has, err := db.Has(key1)
	require.NoError(err)
	require.False(has)

	require.NoError(tsv.Commit(ctx))
	require.Equal(footprint(key1, testVal), ts.Usage())

	stored, err := db.Get(key1)
	require.NoError(err)
	require.Equal(testVal, stored)
}

func TestInsertInvalid(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := newTestTState(t, memdb.New())

	key := binary.BigEndian.AppendUint16([]byte("hello"), 0)
	tsv := ts.NewView()
	require.ErrorIs(tsv.Insert(ctx, key, []byte("cool")), ErrInvalidKeyValue)

	_, err := tsv.GetValue(ctx, key)
	require.ErrorIs(err, database.ErrNotFound)
	require.Zero(tsv.OpIndex())
}

func TestInsertUpdateChangesUsageBySize(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := newTestTState(t, memdb.New())

	tsv := ts.NewView()
	require.NoError(tsv.Insert(ctx, key2, testVal))
	require.NoError(tsv.Commit(ctx))
	base := ts.Usage()

	tsv = ts.NewView()
	longer := []byte("a longer value")
	require.NoError(tsv.Insert(ctx, key2, longer))
	require.Equal(int64(len(longer)-len(testVal)), tsv.UsageDelta())
	require.Equal(testVal, tsv.ops[0].pastV)
	require.True(tsv.ops[0].pastExists)
	require.False(tsv.ops[0].pastChanged)

	require.NoError(tsv.Commit(ctx))
	require.Equal(base+uint64(len(longer)-len(testVal)), ts.Usage())
}

func TestRemoveFreesUsage(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := newTestTState(t, memdb.New())

	tsv := ts.NewView()
	require.NoError(tsv.Insert(ctx, key1, testVal))
	require.NoError(tsv.Commit(ctx))

	tsv = ts.NewView()
	require.NoError(tsv.Remove(ctx, key1))
	require.Equal(-int64(footprint(key1, testVal)), tsv.UsageDelta())
	_, err := tsv.GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound)

	// Removing a missing key is a no-op
	require.NoError(tsv.Remove(ctx, key2))
	require.Equal(1, tsv.OpIndex())

	require.NoError(tsv.Commit(ctx))
	require.Zero(ts.Usage())
}

func TestUnmeteredKeys(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := newTestTState(t, memdb.New())

	tsv := ts.NewView()
	require.NoError(tsv.Insert(ctx, unmeteredKey, testVal))
	require.Zero(tsv.UsageDelta())
	require.NoError(tsv.Remove(ctx, unmeteredKey))
	require.Zero(tsv.UsageDelta())
}

func TestRollback(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := newTestTState(t, memdb.New())

	tsv := ts.NewView()
	require.NoError(tsv.Insert(ctx, key1, testVal))
	require.NoError(tsv.Commit(ctx))
	base := ts.Usage()

	tsv = ts.NewView()
	restorePoint := tsv.OpIndex()

	// modify existing, remove it, create another
	require.NoError(tsv.Insert(ctx, key1, []byte("other")))
	require.NoError(tsv.Remove(ctx, key1))
	require.NoError(tsv.Insert(ctx, key2, testVal))
	require.Equal(3, tsv.OpIndex())
	require.NotEqual(base, tsv.Usage())

	tsv.Rollback(ctx, restorePoint)
	require.Zero(tsv.OpIndex())
	require.Zero(tsv.PendingChanges())
	require.Equal(base, tsv.Usage())

	val, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal(testVal, val)
	_, err = tsv.GetValue(ctx, key2)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestPartialRollback(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := newTestTState(t, memdb.New())

	tsv := ts.NewView()
	require.NoError(tsv.Insert(ctx, key1, testVal))
	restorePoint := tsv.OpIndex()
	require.NoError(tsv.Remove(ctx, key1))
	require.NoError(tsv.Insert(ctx, key2, testVal))

	tsv.Rollback(ctx, restorePoint)
	require.Equal(1, tsv.OpIndex())
	require.Equal(footprint(key1, testVal), tsv.Usage())
	val, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal(testVal, val)

	// Rolling back a remove of a key created in this view restores the
	// created value, and rolling back the create deletes it again.
	require.NoError(tsv.Remove(ctx, key1))
	tsv.Rollback(ctx, 0)
	_, err = tsv.GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound)
	require.Zero(tsv.Usage())
}

func TestCommitPersistsUsage(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := memdb.New()
	ts := newTestTState(t, db)

	tsv := ts.NewView()
	require.NoError(tsv.Insert(ctx, key1, testVal))
	require.NoError(tsv.Commit(ctx))
	require.ErrorIs(tsv.Commit(ctx), ErrViewCommitted)
	require.ErrorIs(tsv.Insert(ctx, key2, testVal), ErrViewCommitted)

	reopened := newTestTState(t, db)
	require.Equal(ts.Usage(), reopened.Usage())
}

func TestCorruptUsage(t *testing.T) {
	require := require.New(t)
	db := memdb.New()
	require.NoError(db.Put(usageKey, []byte{1, 2, 3}))

	_, err := New(db, Config{UsageKey: usageKey})
	require.ErrorIs(err, ErrCorruptUsage)
}
