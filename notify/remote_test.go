// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package notify

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
)

var (
	errRejected = errors.New("rejected")

	alice = account.MustParse("alice")
	bob   = account.MustParse("bob")
)

func newRemote(t *testing.T, receiver Receiver) *RemoteReceiver {
	handler, err := NewHandler(receiver, logging.NoLog{}, trace.Noop)
	require.NoError(t, err)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewRemoteReceiver(server.URL)
}

func TestRemoteReceiver(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	local := NewMockReceiver(ctrl)
	local.EXPECT().
		OnTransfer(gomock.Any(), bob, amount.MustParse("1000000000000000000000000"), "take-my-money").
		Return(amount.New(7), nil)

	remote := newRemote(t, local)
	unused, err := remote.OnTransfer(context.Background(), bob, amount.MustParse("1000000000000000000000000"), "take-my-money")
	require.NoError(err)
	require.Equal(amount.New(7), unused)
}

func TestRemoteReceiverError(t *testing.T) {
	require := require.New(t)

	remote := newRemote(t, ReceiverFunc(func(context.Context, account.ID, amount.U128, string) (amount.U128, error) {
		return amount.Zero, errRejected
	}))
	_, err := remote.OnTransfer(context.Background(), alice, amount.One, "")
	require.ErrorContains(err, errRejected.Error())
}

func TestRemoteReceiverUnreachable(t *testing.T) {
	require := require.New(t)

	server := httptest.NewServer(nil)
	url := server.URL
	server.Close()

	_, err := NewRemoteReceiver(url).OnTransfer(context.Background(), alice, amount.One, "")
	require.Error(err)
}

func TestRouter(t *testing.T) {
	require := require.New(t)

	r := NewRouter()
	_, ok := r.Receiver(alice)
	require.False(ok)

	hook := ReceiverFunc(func(_ context.Context, _ account.ID, amt amount.U128, _ string) (amount.U128, error) {
		return amt, nil
	})
	r.Register(alice, hook)
	require.Equal(1, r.Len())

	got, ok := r.Receiver(alice)
	require.True(ok)
	unused, err := got.OnTransfer(context.Background(), bob, amount.New(3), "")
	require.NoError(err)
	require.Equal(amount.New(3), unused)

	_, ok = r.Receiver(bob)
	require.False(ok)
}
