// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import "github.com/ava-labs/avalanchego/version"

const (
	Name = "ftledger"

	IDLen      = 32
	Uint16Len  = 2
	Uint64Len  = 8
	Uint128Len = 16
	MaxUint16  = ^uint16(0)
	MaxUint64  = ^uint64(0)

	// MaxMemoSize bounds memo and payload strings accepted by the ledger.
	MaxMemoSize = 2_048
)

var Version = &version.Semantic{
	Major: 0,
	Minor: 1,
	Patch: 0,
}
