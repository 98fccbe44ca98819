// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metadata

import (
	"crypto/sha256"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	reference := "https://example.com/token.json"
	hash := sha256.Sum256([]byte(reference))
	bigIcon := strings.Repeat("x", MaxIconSize+1)

	tests := []struct {
		name        string
		modify      func(*Metadata)
		expectedErr error
	}{
		{
			name:   "default",
			modify: func(*Metadata) {},
		},
		{
			name: "reference with hash",
			modify: func(m *Metadata) {
				m.Reference = &reference
				m.ReferenceHash = hash[:]
			},
		},
		{
			name:        "wrong spec",
			modify:      func(m *Metadata) { m.Spec = "ft-2.0.0" },
			expectedErr: ErrInvalidMetadata,
		},
		{
			name:        "empty name",
			modify:      func(m *Metadata) { m.Name = "" },
			expectedErr: ErrInvalidMetadata,
		},
		{
			name:        "empty symbol",
			modify:      func(m *Metadata) { m.Symbol = "" },
			expectedErr: ErrInvalidMetadata,
		},
		{
			name:        "reference without hash",
			modify:      func(m *Metadata) { m.Reference = &reference },
			expectedErr: ErrInvalidMetadata,
		},
		{
			name:        "hash without reference",
			modify:      func(m *Metadata) { m.ReferenceHash = hash[:] },
			expectedErr: ErrInvalidMetadata,
		},
		{
			name: "short hash",
			modify: func(m *Metadata) {
				m.Reference = &reference
				m.ReferenceHash = hash[:16]
			},
			expectedErr: ErrInvalidMetadata,
		},
		{
			name:        "icon too large",
			modify:      func(m *Metadata) { m.Icon = &bigIcon },
			expectedErr: ErrInvalidMetadata,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Default()
			tt.modify(m)
			require.ErrorIs(t, m.Validate(), tt.expectedErr)
		})
	}
}

func TestValidateNil(t *testing.T) {
	var m *Metadata
	require.ErrorIs(t, m.Validate(), ErrInvalidMetadata)
}

func TestDefault(t *testing.T) {
	require := require.New(t)

	m := Default()
	require.NoError(m.Validate())
	require.Equal("Lights", m.Name)
	require.Equal("LTS", m.Symbol)
	require.Zero(m.Decimals)
	require.NotNil(m.Icon)
	require.True(strings.HasPrefix(*m.Icon, "data:image/png;base64,"))
}

func TestJSONFieldNames(t *testing.T) {
	require := require.New(t)

	b, err := json.Marshal(Default())
	require.NoError(err)

	var fields map[string]any
	require.NoError(json.Unmarshal(b, &fields))
	for _, name := range []string{"spec", "name", "symbol", "icon", "reference", "reference_hash", "decimals"} {
		require.Contains(fields, name)
	}
	require.Nil(fields["reference"])
}
