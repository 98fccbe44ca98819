// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transfer

// State is the stage a pending transfer-and-notify call has reached. A call
// is resolved by deleting its record.
type State uint8

const (
	// Applied means the tokens have moved but the receiver has not been
	// notified yet.
	Applied State = iota + 1
	// AwaitingReceipt means the receiver is being notified.
	AwaitingReceipt
)

func (s State) String() string {
	switch s {
	case Applied:
		return "applied"
	case AwaitingReceipt:
		return "awaitingReceipt"
	default:
		return "unknown"
	}
}

// Outcome classifies how much of a transfer the receiver kept.
type Outcome uint8

const (
	// Full means the receiver kept the whole amount.
	Full Outcome = iota
	// Partial means part of the amount was returned.
	Partial
	// Reverted means the whole amount was returned.
	Reverted
)

func (o Outcome) String() string {
	switch o {
	case Full:
		return "full"
	case Partial:
		return "partial"
	case Reverted:
		return "reverted"
	default:
		return "unknown"
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}
