// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/logging"
)

// NewLogSubscription writes every event to [log] as an EVENT_JSON line.
func NewLogSubscription(log logging.Logger) Subscription[Event] {
	return SubscriptionFunc[Event]{
		AcceptF: func(_ context.Context, e Event) error {
			log.Info(e.String())
			return nil
		},
	}
}
