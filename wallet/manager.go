// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wallet

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/btree"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
)

const defaultTreeDegree = 2

var (
	ErrWalletExists  = errors.New("wallet already exists")
	ErrUnknownWallet = errors.New("unknown wallet")
)

// Manager owns the wallets sharing one database, clock and asset store.
type Manager struct {
	log     log.Logger
	db      database.Database
	clock   Clock
	assets  Transferer
	metrics *Metrics

	lock    sync.RWMutex
	wallets *btree.BTreeG[*Wallet]
}

func NewManager(
	log log.Logger,
	db database.Database,
	clock Clock,
	assets Transferer,
	registerer metric.Registerer,
) (*Manager, error) {
	metrics, err := NewMetrics(registerer)
	if err != nil {
		return nil, fmt.Errorf("couldn't register wallet metrics: %w", err)
	}
	return &Manager{
		log:     log,
		db:      db,
		clock:   clock,
		assets:  assets,
		metrics: metrics,
		wallets: btree.NewG(defaultTreeDegree, (*Wallet).Less),
	}, nil
}

// Create registers the wallet described by [config]. Releases previously
// committed under the same ID are picked up from the database.
func (m *Manager) Create(config Config) (*Wallet, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.wallets.Get(&Wallet{id: config.ID}); ok {
		return nil, fmt.Errorf("%w: %s", ErrWalletExists, config.ID)
	}

	w, err := New(m.log, m.db, m.clock, m.assets, m.metrics, config)
	if err != nil {
		return nil, err
	}
	m.wallets.ReplaceOrInsert(w)
	m.metrics.wallets.Set(float64(m.wallets.Len()))

	m.log.Info("created wallet",
		log.Stringer("walletID", w.id),
		log.Stringer("beneficiary", w.beneficiary),
		log.Stringer("kind", w.schedule.Kind()),
		log.Stringer("start", w.start),
	)
	return w, nil
}

func (m *Manager) Get(id ids.ID) (*Wallet, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	w, ok := m.wallets.Get(&Wallet{id: id})
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWallet, id)
	}
	return w, nil
}

// Wallets returns every registered wallet in ID order.
func (m *Manager) Wallets() []*Wallet {
	m.lock.RLock()
	defer m.lock.RUnlock()

	wallets := make([]*Wallet, 0, m.wallets.Len())
	m.wallets.Ascend(func(w *Wallet) bool {
		wallets = append(wallets, w)
		return true
	})
	return wallets
}
