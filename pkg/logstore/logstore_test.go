// Copyright 2026 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logstore_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/maidsafe/maidsafe-utilities/pkg/logstore"
)

func TestAppendIterate(t *testing.T) {
	t.Parallel()

	store, err := logstore.NewInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	var want []logstore.Record
	for i := 0; i < 5; i++ {
		rec := logstore.Record{
			Time:   time.Date(2026, 1, 1, 12, 0, i, 0, time.UTC),
			Source: "tcp/127.0.0.1:53212",
			Body:   []byte(fmt.Sprintf("This is message %d", i)),
		}
		seq, err := store.Append(rec)
		if err != nil {
			t.Fatal(err)
		}
		if seq != uint64(i) {
			t.Fatalf("got seq %d, want %d", seq, i)
		}
		want = append(want, rec)
	}

	var got []logstore.Record
	var seqs []uint64
	err = store.Iterate(func(seq uint64, rec logstore.Record) (bool, error) {
		seqs = append(seqs, seq)
		got = append(got, rec)
		return false, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	timeCmp := cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })
	if diff := cmp.Diff(want, got, timeCmp); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
	for i, seq := range seqs {
		if seq != uint64(i) {
			t.Fatalf("sequence out of order: %v", seqs)
		}
	}
}

func TestIterateStopsEarly(t *testing.T) {
	t.Parallel()

	store, err := logstore.NewInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	for i := 0; i < 10; i++ {
		if _, err := store.Append(logstore.Record{Body: []byte{byte(i)}}); err != nil {
			t.Fatal(err)
		}
	}

	seen := 0
	err = store.Iterate(func(seq uint64, rec logstore.Record) (bool, error) {
		seen++
		return seq == 2, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if seen != 3 {
		t.Fatalf("visited %d records, want 3", seen)
	}
}

func TestSequenceResumesAfterReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	store, err := logstore.New(dir)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := store.Append(logstore.Record{Body: []byte("x")}); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	store, err = logstore.New(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	seq, err := store.Append(logstore.Record{Body: []byte("y")})
	if err != nil {
		t.Fatal(err)
	}
	if seq != 3 {
		t.Fatalf("got seq %d after reopen, want 3", seq)
	}
}
