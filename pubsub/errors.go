// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import "errors"

var (
	ErrClosed      = errors.New("connection closed")
	ErrBacklogFull = errors.New("too many pending messages")
)
