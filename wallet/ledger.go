// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wallet

import (
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/luxfi/cache"
	"github.com/luxfi/cache/lru"
	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/database/versiondb"
	"github.com/luxfi/ids"
)

const releasedCacheSize = 256

// Keys inside a wallet's prefixed database:
//
//	releasedPrefix + assetID -> released amount (32 bytes, big endian)
//	eventCountKey            -> number of events
//	eventPrefix + index      -> codec encoded Released
const (
	releasedPrefix byte = iota
	eventCountKey
	eventPrefix
)

var (
	errNothingStaged  = errors.New("no release staged")
	errReleasePending = errors.New("a release is already staged")
)

// Ledger persists what a wallet has released per asset, and the history of
// Released events. Reads only observe committed releases.
type Ledger struct {
	// lock is never held across a transfer.
	lock sync.Mutex

	// committed state
	db database.Database
	// pending release, written through to db on commit
	staged *versiondb.Database

	// Caches assetID -> released amount. A value is only cached once it is
	// committed.
	releasedCache cache.Cacher[ids.ID, *uint256.Int]

	eventCount uint64
	pending    *pendingRelease
}

type pendingRelease struct {
	asset    ids.ID
	released *uint256.Int
	event    []byte
	// transferred is set once the release's transfer succeeded and only its
	// commit is outstanding.
	transferred bool
}

// NewLedger returns the ledger of [walletID] stored in [db].
func NewLedger(db database.Database, walletID ids.ID) (*Ledger, error) {
	walletDB := prefixdb.New(walletID[:], db)
	eventCount, err := database.GetUInt64(walletDB, []byte{eventCountKey})
	if err == database.ErrNotFound {
		eventCount = 0
	} else if err != nil {
		return nil, err
	}

	return &Ledger{
		db:            walletDB,
		staged:        versiondb.New(walletDB),
		releasedCache: lru.NewCache[ids.ID, *uint256.Int](releasedCacheSize),
		eventCount:    eventCount,
	}, nil
}

// Released returns the amount of [asset] released so far. A release that was
// transferred but not yet committed is included.
func (l *Ledger) Released(asset ids.ID) (*uint256.Int, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if p := l.pending; p != nil && p.transferred && p.asset == asset {
		return p.released.Clone(), nil
	}

	if released, found := l.releasedCache.Get(asset); found {
		return released.Clone(), nil
	}

	b, err := l.db.Get(releasedKey(asset))
	if err == database.ErrNotFound {
		l.releasedCache.Put(asset, new(uint256.Int))
		return new(uint256.Int), nil
	}
	if err != nil {
		return nil, err
	}

	released := new(uint256.Int).SetBytes(b)
	l.releasedCache.Put(asset, released)
	return released.Clone(), nil
}

// Events returns every committed Released event, oldest first.
func (l *Ledger) Events() ([]Released, error) {
	it := l.db.NewIteratorWithPrefix([]byte{eventPrefix})
	defer it.Release()

	var events []Released
	for it.Next() {
		event, err := parseReleased(it.Value())
		if err != nil {
			return nil, fmt.Errorf("couldn't parse event %x: %w", it.Key(), err)
		}
		events = append(events, event)
	}
	return events, it.Error()
}

// EventCount returns the number of committed Released events.
func (l *Ledger) EventCount() uint64 {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.eventCount
}

// stage records [event] and the new [released] total of its asset without
// making either visible. Exactly one of commit or abort must follow.
func (l *Ledger) stage(event *Released, released *uint256.Int) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if l.pending != nil {
		return errReleasePending
	}

	eventBytes, err := event.Bytes()
	if err != nil {
		return err
	}
	p := &pendingRelease{
		asset:    event.Asset,
		released: released.Clone(),
		event:    eventBytes,
	}
	if err := l.writeStaged(p); err != nil {
		return err
	}
	l.pending = p
	return nil
}

// commit makes the staged release visible. If the write fails the release is
// kept pending and counted as released, and commitPending must record it
// before the next release is staged.
func (l *Ledger) commit() error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if l.pending == nil {
		return errNothingStaged
	}
	return l.commitStaged()
}

// commitPending records a release whose commit previously failed. It is a
// no-op if nothing is pending.
func (l *Ledger) commitPending() error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if l.pending == nil {
		return nil
	}
	if err := l.writeStaged(l.pending); err != nil {
		return err
	}
	return l.commitStaged()
}

func (l *Ledger) abort() {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.staged.Abort()
	l.pending = nil
}

// commitStaged assumes the lock is held and l.pending is set.
func (l *Ledger) commitStaged() error {
	if err := l.staged.Commit(); err != nil {
		l.staged.Abort()
		l.pending.transferred = true
		return err
	}

	l.releasedCache.Put(l.pending.asset, l.pending.released)
	l.eventCount++
	l.pending = nil
	return nil
}

// writeStaged assumes the lock is held.
func (l *Ledger) writeStaged(p *pendingRelease) error {
	amount := p.released.Bytes32()
	if err := l.staged.Put(releasedKey(p.asset), amount[:]); err != nil {
		l.staged.Abort()
		return err
	}
	if err := l.staged.Put(eventKey(l.eventCount), p.event); err != nil {
		l.staged.Abort()
		return err
	}
	if err := database.PutUInt64(l.staged, []byte{eventCountKey}, l.eventCount+1); err != nil {
		l.staged.Abort()
		return err
	}
	return nil
}

func releasedKey(asset ids.ID) []byte {
	key := make([]byte, 1+ids.IDLen)
	key[0] = releasedPrefix
	copy(key[1:], asset[:])
	return key
}

func eventKey(index uint64) []byte {
	key := make([]byte, 1, 1+database.Uint64Size)
	key[0] = eventPrefix
	return append(key, database.PackUInt64(index)...)
}
