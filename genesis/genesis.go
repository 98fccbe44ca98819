// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/contract"
	"github.com/ava-labs/ftledger/metadata"
	"github.com/ava-labs/ftledger/tstate"
)

var (
	ErrMissingOwner    = errors.New("missing owner")
	ErrMissingMetadata = errors.New("missing metadata")
)

// DefaultTotalSupply is 1 billion whole tokens.
var DefaultTotalSupply = amount.New(1_000_000_000)

// Genesis describes the state a new ledger starts from.
type Genesis struct {
	Owner       account.ID         `json:"owner"`
	TotalSupply amount.U128        `json:"totalSupply"`
	Metadata    *metadata.Metadata `json:"metadata"`
}

func NewDefaultGenesis(owner account.ID) *Genesis {
	return &Genesis{
		Owner:       owner,
		TotalSupply: DefaultTotalSupply,
		Metadata:    metadata.Default(),
	}
}

// Load parses and verifies a JSON genesis.
func Load(b []byte) (*Genesis, error) {
	g := &Genesis{}
	if err := json.Unmarshal(b, g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal genesis %s: %w", string(b), err)
	}
	if err := g.Verify(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Genesis) Verify() error {
	if len(g.Owner) == 0 {
		return ErrMissingOwner
	}
	if g.Metadata == nil {
		return ErrMissingMetadata
	}
	return g.Metadata.Validate()
}

// InitializeState creates the ledger described by [g] in [db].
func (g *Genesis) InitializeState(ctx context.Context, db tstate.Database, opts contract.Options) (*contract.Contract, error) {
	if err := g.Verify(); err != nil {
		return nil, err
	}
	return contract.Init(ctx, db, opts, g.Owner, g.TotalSupply, g.Metadata)
}
