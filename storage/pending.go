// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/near/borsh-go"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/consts"
	"github.com/ava-labs/ftledger/state"
)

// PendingTransfer is a transfer that has been applied optimistically and is
// waiting for the receiver's verdict.
type PendingTransfer struct {
	ID       ids.ID      `json:"id"`
	Sender   account.ID  `json:"sender"`
	Receiver account.ID  `json:"receiver"`
	Amount   amount.U128 `json:"amount"`
	Memo     *string     `json:"memo,omitempty"`
	State    uint8       `json:"state"`
	// Created is the unix time (ms) the transfer was applied.
	Created int64 `json:"created"`
}

type pendingRecord struct {
	ID       ids.ID
	Sender   string
	Receiver string
	Amount   [consts.Uint128Len]byte
	Memo     *string
	State    uint8
	Created  int64
}

// [pendingPrefix] + [correlationID]
func PendingKey(id ids.ID) []byte {
	k := make([]byte, 0, 1+consts.IDLen)
	k = append(k, pendingPrefix)
	k = append(k, id[:]...)
	return mustEncode(k, maxPendingSize)
}

func GetPendingTransfer(ctx context.Context, im state.Immutable, id ids.ID) (*PendingTransfer, error) {
	v, err := im.GetValue(ctx, PendingKey(id))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPendingNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	var r pendingRecord
	if err := borsh.Deserialize(&r, v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptValue, err)
	}
	amt, err := amount.FromBytes(r.Amount[:])
	if err != nil {
		return nil, err
	}
	return &PendingTransfer{
		ID:       r.ID,
		Sender:   account.ID(r.Sender),
		Receiver: account.ID(r.Receiver),
		Amount:   amt,
		Memo:     r.Memo,
		State:    r.State,
		Created:  r.Created,
	}, nil
}

// PutPendingTransfer stores [p] and adds it to the pending index.
func PutPendingTransfer(ctx context.Context, mu state.Mutable, p *PendingTransfer) error {
	index, err := GetPendingIndex(ctx, mu)
	if err != nil {
		return err
	}
	if slices.Contains(index, p.ID) {
		return fmt.Errorf("%w: %s", ErrDuplicatePending, p.ID)
	}
	if len(index) >= MaxPendingTransfers {
		return fmt.Errorf("%w: limit %d", ErrTooManyPending, MaxPendingTransfers)
	}
	if err := writePending(ctx, mu, p); err != nil {
		return err
	}
	return setPendingIndex(ctx, mu, append(index, p.ID))
}

// UpdatePendingTransfer overwrites the stored record of [p]. The record
// must already exist.
func UpdatePendingTransfer(ctx context.Context, mu state.Mutable, p *PendingTransfer) error {
	_, err := mu.GetValue(ctx, PendingKey(p.ID))
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrPendingNotFound, p.ID)
	}
	if err != nil {
		return err
	}
	return writePending(ctx, mu, p)
}

func writePending(ctx context.Context, mu state.Mutable, p *PendingTransfer) error {
	v, err := borsh.Serialize(pendingRecord{
		ID:       p.ID,
		Sender:   p.Sender.String(),
		Receiver: p.Receiver.String(),
		Amount:   p.Amount.Bytes(),
		Memo:     p.Memo,
		State:    p.State,
		Created:  p.Created,
	})
	if err != nil {
		return err
	}
	if len(v) > maxPendingSize {
		return fmt.Errorf("%w: pending transfer has %d bytes, limit %d", ErrValueTooLarge, len(v), maxPendingSize)
	}
	return mu.Insert(ctx, PendingKey(p.ID), v)
}

// DeletePendingTransfer removes [id] and its index entry.
func DeletePendingTransfer(ctx context.Context, mu state.Mutable, id ids.ID) error {
	index, err := GetPendingIndex(ctx, mu)
	if err != nil {
		return err
	}
	i := slices.Index(index, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPendingNotFound, id)
	}
	if err := mu.Remove(ctx, PendingKey(id)); err != nil {
		return err
	}
	return setPendingIndex(ctx, mu, slices.Delete(index, i, i+1))
}

// GetPendingIndex returns the correlation ids of all pending transfers in
// the order they were created.
func GetPendingIndex(ctx context.Context, im state.Immutable) ([]ids.ID, error) {
	v, err := im.GetValue(ctx, pendingIndexKey)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var index []ids.ID
	if err := borsh.Deserialize(&index, v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptValue, err)
	}
	return index, nil
}

func setPendingIndex(ctx context.Context, mu state.Mutable, index []ids.ID) error {
	if len(index) == 0 {
		return mu.Remove(ctx, pendingIndexKey)
	}
	v, err := borsh.Serialize(index)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, pendingIndexKey, v)
}
