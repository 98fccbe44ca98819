// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
)

var errTest = errors.New("test")

func TestEventJSON(t *testing.T) {
	memo := "refund"
	tests := []struct {
		name     string
		event    Event
		expected string
	}{
		{
			name:     "mint",
			event:    NewMint(account.MustParse("owner"), amount.New(1_000), nil),
			expected: `EVENT_JSON:{"standard":"nep141","version":"1.0.0","event":"ft_mint","data":[{"owner_id":"owner","amount":"1000"}]}`,
		},
		{
			name:     "transfer with memo",
			event:    NewTransfer(account.MustParse("bob"), account.MustParse("alice"), amount.New(7), &memo),
			expected: `EVENT_JSON:{"standard":"nep141","version":"1.0.0","event":"ft_transfer","data":[{"old_owner_id":"bob","new_owner_id":"alice","amount":"7","memo":"refund"}]}`,
		},
		{
			name:     "burn",
			event:    NewBurn(account.MustParse("alice"), amount.One, nil),
			expected: `EVENT_JSON:{"standard":"nep141","version":"1.0.0","event":"ft_burn","data":[{"owner_id":"alice","amount":"1"}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			require.Equal(tt.expected, tt.event.String())

			var decoded Event
			require.NoError(json.Unmarshal([]byte(tt.expected[len(Prefix):]), &decoded))
			require.Equal(tt.event, decoded)
		})
	}
}

func TestBuffer(t *testing.T) {
	require := require.New(t)

	var b Buffer
	b.Add(NewMint(account.MustParse("owner"), amount.One, nil))
	b.Add(NewBurn(account.MustParse("owner"), amount.One, nil))

	events := b.Drain()
	require.Len(events, 2)
	require.Equal(Mint, events[0].Kind)
	require.Equal(Burn, events[1].Kind)
	require.Empty(b.Drain())
}

func TestNotifyAll(t *testing.T) {
	require := require.New(t)

	var received []Kind
	ok := SubscriptionFunc[Event]{
		AcceptF: func(_ context.Context, e Event) error {
			received = append(received, e.Kind)
			return nil
		},
	}
	failing := SubscriptionFunc[Event]{
		AcceptF: func(context.Context, Event) error {
			return errTest
		},
	}

	e := NewMint(account.MustParse("owner"), amount.One, nil)
	err := NotifyAll(context.Background(), e, failing, ok)
	require.ErrorIs(err, errTest)
	require.Equal([]Kind{Mint}, received)
	require.NoError(CloseAll[Event](ok, failing))
}
