// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"encoding/json"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
)

const (
	Standard = "nep141"
	Version  = "1.0.0"

	// Prefix marks a log line as a structured event.
	Prefix = "EVENT_JSON:"
)

type Kind string

const (
	Mint     Kind = "ft_mint"
	Transfer Kind = "ft_transfer"
	Burn     Kind = "ft_burn"
)

// Data is a single entry of an event. Mint and burn set OwnerID, transfers
// set OldOwnerID and NewOwnerID.
type Data struct {
	OwnerID    account.ID  `json:"owner_id,omitempty"`
	OldOwnerID account.ID  `json:"old_owner_id,omitempty"`
	NewOwnerID account.ID  `json:"new_owner_id,omitempty"`
	Amount     amount.U128 `json:"amount"`
	Memo       *string     `json:"memo,omitempty"`
}

type Event struct {
	Kind Kind
	Data []Data
}

type envelope struct {
	Standard string `json:"standard"`
	Version  string `json:"version"`
	Event    Kind   `json:"event"`
	Data     []Data `json:"data"`
}

func NewMint(owner account.ID, amt amount.U128, memo *string) Event {
	return Event{Kind: Mint, Data: []Data{{OwnerID: owner, Amount: amt, Memo: memo}}}
}

func NewTransfer(oldOwner, newOwner account.ID, amt amount.U128, memo *string) Event {
	return Event{Kind: Transfer, Data: []Data{{OldOwnerID: oldOwner, NewOwnerID: newOwner, Amount: amt, Memo: memo}}}
}

func NewBurn(owner account.ID, amt amount.U128, memo *string) Event {
	return Event{Kind: Burn, Data: []Data{{OwnerID: owner, Amount: amt, Memo: memo}}}
}

func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelope{
		Standard: Standard,
		Version:  Version,
		Event:    e.Kind,
		Data:     e.Data,
	})
}

func (e *Event) UnmarshalJSON(b []byte) error {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	e.Kind = env.Event
	e.Data = env.Data
	return nil
}

// String returns the log line for [e].
func (e Event) String() string {
	b, err := e.MarshalJSON()
	if err != nil {
		return Prefix + "{}"
	}
	return Prefix + string(b)
}

// Buffer collects the events of an operation until it commits.
type Buffer struct {
	events []Event
}

func (b *Buffer) Add(e Event) {
	b.events = append(b.events, e)
}

// Drain returns the buffered events and empties the buffer.
func (b *Buffer) Drain() []Event {
	events := b.events
	b.events = nil
	return events
}
