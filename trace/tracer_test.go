// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabledTracer(t *testing.T) {
	require := require.New(t)

	tracer, err := New(&Config{AppName: "ftledger"})
	require.NoError(err)

	_, span := tracer.Start(context.Background(), "Contract.Transfer")
	span.End()
	require.False(span.IsRecording())
	require.NoError(tracer.Close())
}

func TestEnabledTracerRequiresEndpoint(t *testing.T) {
	_, err := New(&Config{Enabled: true, AppName: "ftledger"})
	require.ErrorIs(t, err, ErrMissingEndpoint)
}
