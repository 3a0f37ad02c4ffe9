// Package mempool maintains the pool of transactions waiting to be included
// in a block. Transactions are kept in the order they arrived.
package mempool

import (
	"sync"

	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/database"
)

// Mempool represents an ordered cache of pending transactions. The same
// transaction may be added more than once and each copy is tracked.
type Mempool struct {
	mu   sync.RWMutex
	pool []database.Tx
}

// New constructs a new, empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a copy of the transaction to the end of the pool and returns
// the new size of the pool.
func (mp *Mempool) Add(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx.Clone())

	return len(mp.pool)
}

// Delete removes one pooled copy for each of the specified transactions and
// returns how many were removed. Transactions not found are ignored, so
// anything added after the caller took its copy stays in the pool.
func (mp *Mempool) Delete(txs []database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	var removed int
	for _, tx := range txs {
		for i := range mp.pool {
			if mp.pool[i].Equals(tx) {
				mp.pool = append(mp.pool[:i], mp.pool[i+1:]...)
				removed++
				break
			}
		}
	}

	return removed
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}

// Copy returns a copy of every transaction in the pool in arrival order.
func (mp *Mempool) Copy() []database.Tx {
	return mp.PickBest(-1)
}

// PickBest returns copies of the next set of transactions for the next
// block, oldest first. Pass -1 for all the transactions.
func (mp *Mempool) PickBest(howMany int) []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	if howMany < 0 || howMany > len(mp.pool) {
		howMany = len(mp.pool)
	}

	txs := make([]database.Tx, howMany)
	for i := range howMany {
		txs[i] = mp.pool[i].Clone()
	}

	return txs
}
