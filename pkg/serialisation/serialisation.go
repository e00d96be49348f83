// Copyright 2025 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package serialisation provides the wire codec used across the module,
// backed by msgpack, with optional byte budgets on both directions.
package serialisation

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	// ErrSerialise classifies encoding failures.
	ErrSerialise = errors.New("serialise")
	// ErrDeserialise classifies decoding failures.
	ErrDeserialise = errors.New("deserialise")
	// ErrLimitExceeded is wrapped by failures caused by a byte budget.
	ErrLimitExceeded = errors.New("size limit exceeded")
)

// Serialise encodes v.
func Serialise(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialise, err)
	}
	return data, nil
}

// Deserialise decodes data into v, which must be a pointer.
func Deserialise(data []byte, v any) error {
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDeserialise, err)
	}
	return nil
}

// SerialiseInto encodes v to w.
func SerialiseInto(w io.Writer, v any) error {
	if err := msgpack.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrSerialise, err)
	}
	return nil
}

// DeserialiseFrom decodes a single value from r into v.
func DeserialiseFrom(r io.Reader, v any) error {
	if err := msgpack.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrDeserialise, err)
	}
	return nil
}

// SerialiseWithLimit encodes v, failing with ErrLimitExceeded as soon as
// the encoded form grows past limit bytes. The oversized remainder is never
// buffered.
func SerialiseWithLimit(v any, limit int64) ([]byte, error) {
	var buf bytes.Buffer
	lw := &limitedWriter{w: &buf, remaining: limit}
	if err := msgpack.NewEncoder(lw).Encode(v); err != nil {
		if lw.exceeded {
			return nil, fmt.Errorf("%w: %w", ErrSerialise, ErrLimitExceeded)
		}
		return nil, fmt.Errorf("%w: %w", ErrSerialise, err)
	}
	return buf.Bytes(), nil
}

// DeserialiseWithLimit decodes data into v after checking it against the
// byte budget.
func DeserialiseWithLimit(data []byte, v any, limit int64) error {
	if int64(len(data)) > limit {
		return fmt.Errorf("%w: %w", ErrDeserialise, ErrLimitExceeded)
	}
	return Deserialise(data, v)
}

// limitedWriter fails any write that would push the total past the budget.
type limitedWriter struct {
	w         io.Writer
	remaining int64
	exceeded  bool
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	if int64(len(p)) > lw.remaining {
		lw.exceeded = true
		return 0, ErrLimitExceeded
	}
	n, err := lw.w.Write(p)
	lw.remaining -= int64(n)
	return n, err
}
