// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"errors"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool/selector"
)

// ErrUnverified is returned when a transaction with a bad signature is
// added to the pool.
var ErrUnverified = errors.New("transaction signature does not verify")

// Mempool represents a cache of signed transactions waiting to be mined,
// keyed by their transaction id.
type Mempool struct {
	mu       sync.RWMutex
	pool     map[string]database.SignedTx
	selectFn selector.Func
}

// New constructs a new mempool using the default select strategy.
func New() *Mempool {
	mp, _ := NewWithStrategy(selector.StrategyOldest)
	return mp
}

// NewWithStrategy constructs a new mempool with specified select strategy.
func NewWithStrategy(strategy string) (*Mempool, error) {
	selectFn, err := selector.Retrieve(strategy)
	if err != nil {
		return nil, err
	}

	mp := Mempool{
		pool:     make(map[string]database.SignedTx),
		selectFn: selectFn,
	}

	return &mp, nil
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds or replaces a transaction in the mempool. Only transactions
// that verify are accepted.
func (mp *Mempool) Upsert(tx database.SignedTx) (int, error) {
	if !tx.Verify() {
		return 0, ErrUnverified
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool[tx.Tx.ID()] = tx

	return len(mp.pool), nil
}

// Contains reports whether the transaction is already waiting in the pool.
func (mp *Mempool) Contains(tx database.SignedTx) bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	_, exists := mp.pool[tx.Tx.ID()]
	return exists
}

// Delete removes a transaction from the mempool.
func (mp *Mempool) Delete(tx database.SignedTx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	delete(mp.pool, tx.Tx.ID())
}

// PickBest uses the configured select strategy to return the next set
// of transactions for the next block. Pass -1 for all the transactions.
func (mp *Mempool) PickBest(howMany int) []database.SignedTx {

	// Group the transactions by sender.
	m := make(map[string][]database.SignedTx)
	mp.mu.RLock()
	{
		for _, tx := range mp.pool {
			m[tx.Tx.Sender] = append(m[tx.Tx.Sender], tx)
		}
	}
	mp.mu.RUnlock()

	return mp.selectFn(m, howMany)
}

// Copy returns every transaction in the pool in the select strategy order.
func (mp *Mempool) Copy() []database.SignedTx {
	return mp.PickBest(-1)
}
