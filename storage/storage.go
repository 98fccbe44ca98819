// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/ftledger/pebble"
	"github.com/ava-labs/ftledger/utils"
)

// New opens the ledger state database under [dataDir], registering its
// metrics with [r].
func New(cfg pebble.Config, dataDir string, r prometheus.Registerer) (*pebble.Database, error) {
	path, err := utils.InitSubDirectory(dataDir, stateDir)
	if err != nil {
		return nil, err
	}
	return pebble.New(path, cfg, r)
}
