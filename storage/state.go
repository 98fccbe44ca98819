// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/near/borsh-go"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/consts"
	"github.com/ava-labs/ftledger/keys"
	"github.com/ava-labs/ftledger/metadata"
	"github.com/ava-labs/ftledger/state"
	"github.com/ava-labs/ftledger/tstate"
)

// State
// 0x0/ (accounts)
//   -> [hash(account)] => balance|stake
// 0x1/ (supply)
//   -> total supply
// 0x2/ (metadata)
//   -> metadata (borsh)
// 0x3/ (usage)
//   -> storage usage in bytes (unmetered)
// 0x4/ (pending transfers)
//   -> [correlationID] => pending transfer (borsh, unmetered)
// 0x5/ (pending index)
//   -> [correlationID...] (borsh, unmetered)
// 0x6/ (nonce)
//   -> next correlation nonce (unmetered)

const (
	accountPrefix      = 0x0
	supplyPrefix       = 0x1
	metadataPrefix     = 0x2
	usagePrefix        = 0x3
	pendingPrefix      = 0x4
	pendingIndexPrefix = 0x5
	noncePrefix        = 0x6
)

const (
	AccountChunks uint16 = 1
	SupplyChunks  uint16 = 1
	NonceChunks   uint16 = 1

	// MaxMetadataSize bounds the encoded metadata blob.
	MaxMetadataSize = 64 * 1024
	// MaxPendingTransfers bounds the number of notifications awaiting
	// resolution at once.
	MaxPendingTransfers = 1_024

	maxPendingSize = 4 * 1024

	accountKeyLen   = 1 + consts.IDLen + consts.Uint16Len
	accountValueLen = 2 * consts.Uint128Len

	// AccountStorageUsage is the number of bytes a registered account
	// occupies, including the per-record overhead charged by tstate.
	AccountStorageUsage = accountKeyLen + accountValueLen + tstate.DefaultEntryOverhead
)

var (
	supplyKey       = keys.EncodeChunks([]byte{supplyPrefix}, SupplyChunks)
	metadataKey     = mustEncode([]byte{metadataPrefix}, MaxMetadataSize)
	usageKey        = keys.EncodeChunks([]byte{usagePrefix}, 1)
	pendingIndexKey = mustEncode([]byte{pendingIndexPrefix}, consts.Uint64Len+MaxPendingTransfers*consts.IDLen)
	nonceKey        = keys.EncodeChunks([]byte{noncePrefix}, NonceChunks)
)

func mustEncode(k []byte, maxSize int) []byte {
	key, ok := keys.Encode(k, maxSize)
	if !ok {
		panic(fmt.Sprintf("cannot encode key %x for %d bytes", k, maxSize))
	}
	return key
}

// TStateConfig describes how usage is accounted for this layout: account,
// supply and metadata records are metered, bookkeeping records are not.
func TStateConfig() tstate.Config {
	return tstate.Config{
		UsageKey:      usageKey,
		Metered:       Metered,
		EntryOverhead: tstate.DefaultEntryOverhead,
	}
}

// Metered reports whether [key] counts towards storage usage.
func Metered(key []byte) bool {
	if len(key) == 0 {
		return false
	}
	switch key[0] {
	case accountPrefix, supplyPrefix, metadataPrefix:
		return true
	default:
		return false
	}
}

// Account is the record kept for every registered account.
type Account struct {
	Balance amount.U128
	Stake   amount.U128
}

// [accountPrefix] + [hash(account)]
func AccountKey(id account.ID) []byte {
	h := id.Hash()
	k := make([]byte, 0, accountKeyLen)
	k = append(k, accountPrefix)
	k = append(k, h[:]...)
	return binary.BigEndian.AppendUint16(k, AccountChunks)
}

func packAccount(a Account) []byte {
	v := make([]byte, 0, accountValueLen)
	b := a.Balance.Bytes()
	v = append(v, b[:]...)
	s := a.Stake.Bytes()
	return append(v, s[:]...)
}

func unpackAccount(v []byte) (Account, error) {
	if len(v) != accountValueLen {
		return Account{}, fmt.Errorf("%w: account record has %d bytes", ErrCorruptValue, len(v))
	}
	balance, err := amount.FromBytes(v[:consts.Uint128Len])
	if err != nil {
		return Account{}, err
	}
	stake, err := amount.FromBytes(v[consts.Uint128Len:])
	if err != nil {
		return Account{}, err
	}
	return Account{Balance: balance, Stake: stake}, nil
}

// GetAccount returns the record for [id]. If the account is not registered,
// exists is false.
func GetAccount(
	ctx context.Context,
	im state.Immutable,
	id account.ID,
) (Account, bool, error) {
	v, err := im.GetValue(ctx, AccountKey(id))
	if errors.Is(err, database.ErrNotFound) {
		return Account{}, false, nil
	}
	if err != nil {
		return Account{}, false, err
	}
	a, err := unpackAccount(v)
	if err != nil {
		return Account{}, false, err
	}
	return a, true, nil
}

func SetAccount(
	ctx context.Context,
	mu state.Mutable,
	id account.ID,
	a Account,
) error {
	return mu.Insert(ctx, AccountKey(id), packAccount(a))
}

func DeleteAccount(ctx context.Context, mu state.Mutable, id account.ID) error {
	return mu.Remove(ctx, AccountKey(id))
}

// IsRegistered returns whether [id] has an account record.
func IsRegistered(ctx context.Context, im state.Immutable, id account.ID) (bool, error) {
	_, exists, err := GetAccount(ctx, im, id)
	return exists, err
}

// GetTotalSupply returns the total supply and whether the ledger has been
// initialized.
func GetTotalSupply(ctx context.Context, im state.Immutable) (amount.U128, bool, error) {
	v, err := im.GetValue(ctx, supplyKey)
	if errors.Is(err, database.ErrNotFound) {
		return amount.Zero, false, nil
	}
	if err != nil {
		return amount.Zero, false, err
	}
	supply, err := amount.FromBytes(v)
	if err != nil {
		return amount.Zero, false, fmt.Errorf("%w: %w", ErrCorruptValue, err)
	}
	return supply, true, nil
}

func SetTotalSupply(ctx context.Context, mu state.Mutable, supply amount.U128) error {
	b := supply.Bytes()
	return mu.Insert(ctx, supplyKey, b[:])
}

func GetMetadata(ctx context.Context, im state.Immutable) (*metadata.Metadata, bool, error) {
	v, err := im.GetValue(ctx, metadataKey)
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	m := new(metadata.Metadata)
	if err := borsh.Deserialize(m, v); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrCorruptValue, err)
	}
	if len(m.ReferenceHash) == 0 {
		m.ReferenceHash = nil
	}
	return m, true, nil
}

func SetMetadata(ctx context.Context, mu state.Mutable, m *metadata.Metadata) error {
	v, err := borsh.Serialize(*m)
	if err != nil {
		return err
	}
	if len(v) > MaxMetadataSize {
		return fmt.Errorf("%w: metadata has %d bytes, limit %d", ErrValueTooLarge, len(v), MaxMetadataSize)
	}
	return mu.Insert(ctx, metadataKey, v)
}

// NextNonce returns the next correlation nonce and advances the counter.
func NextNonce(ctx context.Context, mu state.Mutable) (uint64, error) {
	var nonce uint64
	v, err := mu.GetValue(ctx, nonceKey)
	switch {
	case errors.Is(err, database.ErrNotFound):
	case err != nil:
		return 0, err
	case len(v) != consts.Uint64Len:
		return 0, fmt.Errorf("%w: nonce has %d bytes", ErrCorruptValue, len(v))
	default:
		nonce = binary.BigEndian.Uint64(v)
	}
	if err := mu.Insert(ctx, nonceKey, binary.BigEndian.AppendUint64(nil, nonce+1)); err != nil {
		return 0, err
	}
	return nonce, nil
}
