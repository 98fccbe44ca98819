// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metadata

import "errors"

var ErrInvalidMetadata = errors.New("invalid metadata")
