// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/ftledger/consts"
)

// DefaultEntryOverhead is the number of bytes charged for every stored
// record on top of its key and value.
const DefaultEntryOverhead = 40

type Database interface {
	database.KeyValueReader
	database.Batcher
}

type Config struct {
	// UsageKey is where the committed storage usage counter is persisted.
	// The counter itself is never metered.
	UsageKey []byte
	// Metered reports whether writes to [key] count towards storage usage.
	// A nil func meters every key except [UsageKey].
	Metered func(key []byte) bool
	// EntryOverhead is charged once per metered record.
	EntryOverhead uint64
}

// TState holds the committed storage usage of [db] and hands out views
// that batch changes until they are committed.
type TState struct {
	db  Database
	cfg Config

	usage uint64
}

// New returns a new instance of TState, loading the persisted usage counter
// from [db] if it exists.
func New(db Database, cfg Config) (*TState, error) {
	ts := &TState{db: db, cfg: cfg}
	v, err := db.Get(cfg.UsageKey)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return ts, nil
	case err != nil:
		return nil, err
	case len(v) != consts.Uint64Len:
		return nil, fmt.Errorf("%w: expected %d bytes, found %d", ErrCorruptUsage, consts.Uint64Len, len(v))
	}
	ts.usage = binary.BigEndian.Uint64(v)
	return ts, nil
}

// Usage returns the committed storage usage in bytes.
func (ts *TState) Usage() uint64 {
	return ts.usage
}

func (ts *TState) metered(key []byte) bool {
	if string(key) == string(ts.cfg.UsageKey) {
		return false
	}
	if ts.cfg.Metered == nil {
		return true
	}
	return ts.cfg.Metered(key)
}

// footprint is the usage of a single record.
func (ts *TState) footprint(key []byte, value []byte) int64 {
	return int64(len(key)) + int64(len(value)) + int64(ts.cfg.EntryOverhead)
}
