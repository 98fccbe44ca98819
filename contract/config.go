// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"time"

	"github.com/ava-labs/ftledger/meter"
	"github.com/ava-labs/ftledger/transfer"
)

type Config struct {
	Pricing       meter.Pricing `json:"pricing"`
	NotifyTimeout time.Duration `json:"notifyTimeout"`
}

func NewDefaultConfig() Config {
	return Config{
		Pricing:       meter.DefaultPricing(),
		NotifyTimeout: transfer.DefaultNotifyTimeout,
	}
}
