// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNumChunks(t *testing.T) {
	tests := []struct {
		size     int
		expected uint16
	}{
		{0, 0},
		{1, 1},
		{chunkSize, 1},
		{chunkSize + 1, 2},
		{3 * chunkSize, 3},
	}
	for _, tt := range tests {
		chunks, ok := NumChunks(make([]byte, tt.size))
		require.True(t, ok)
		require.Equal(t, tt.expected, chunks, "size=%d", tt.size)
	}
}

func TestVerifyValue(t *testing.T) {
	require := require.New(t)

	k := EncodeChunks([]byte("balance"), 1)
	maxChunks, ok := MaxChunks(k)
	require.True(ok)
	require.Equal(uint16(1), maxChunks)

	require.True(VerifyValue(k, make([]byte, chunkSize)))
	require.False(VerifyValue(k, make([]byte, chunkSize+1)))
	require.False(VerifyValue([]byte{1}, nil))

	k, ok = Encode([]byte("metadata"), 200)
	require.True(ok)
	require.True(VerifyValue(k, make([]byte, 200)))
	require.False(VerifyValue(k, make([]byte, 257)))
}
