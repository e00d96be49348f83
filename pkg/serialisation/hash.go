// Copyright 2025 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package serialisation

import (
	"bytes"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// StableHash returns a 64-bit hash of the serialised form of v that is
// stable across processes and host endianness. Map keys are sorted before
// encoding so equal maps hash equally.
func StableHash(v any) (uint64, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerialise, err)
	}
	return xxhash.Sum64(buf.Bytes()), nil
}
