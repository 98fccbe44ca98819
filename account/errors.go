// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package account

import "errors"

var ErrInvalidID = errors.New("invalid account id")
