// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dispatch

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/ton-org/vanity/internal/spec"
	"github.com/ton-org/vanity/internal/variant"
)

// MatchRecord is the host-facing record of one admissible candidate,
// exactly the fields spec.md §6 names: the emitted hash0, the rendered
// friendly address, the full StateInit (code cell bytes plus
// variant-derived flags), the originating config, and a timestamp.
type MatchRecord struct {
	Hash0    byte            `json:"hash0"`
	Address  string          `json:"address"`
	CodeCell [80]byte        `json:"code_cell"`
	Variant  variant.Variant `json:"variant"`
	Spec     spec.Spec       `json:"spec"`
	FoundAt  time.Time       `json:"found_at"`
}

// matchLog persists MatchRecords to a leveldb database, keyed by a
// monotonic big-endian sequence number. It stores every record it is
// given; suppressing an already-seen rendered address is done by the
// Dispatcher's LRU before append is called.
type matchLog struct {
	db  *leveldb.DB
	seq uint64
}

func openMatchLog(path string) (*matchLog, error) {
	if path == "" {
		return &matchLog{}, nil
	}
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open match log %q: %w", path, err)
	}
	return &matchLog{db: db}, nil
}

func (l *matchLog) close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// append persists rec, returning the sequence number it was stored
// under. A no-op (seq 0) if persistence is disabled.
func (l *matchLog) append(rec MatchRecord) (uint64, error) {
	if l.db == nil {
		return 0, nil
	}
	l.seq++
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], l.seq)
	val, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("encode match record: %w", err)
	}
	if err := l.db.Put(key[:], val, nil); err != nil {
		return 0, fmt.Errorf("persist match record: %w", err)
	}
	return l.seq, nil
}

// All returns every persisted match record in sequence order. The search
// loop itself does not call it.
func (l *matchLog) All() ([]MatchRecord, error) {
	if l.db == nil {
		return nil, nil
	}
	iter := l.db.NewIterator(nil, nil)
	defer iter.Release()

	var out []MatchRecord
	for iter.Next() {
		var rec MatchRecord
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			return nil, fmt.Errorf("decode match record: %w", err)
		}
		out = append(out, rec)
	}
	return out, iter.Error()
}
