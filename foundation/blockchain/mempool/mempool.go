// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"sort"
	"sync"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/google/uuid"
)

// Entry represents a pending transaction waiting to be mined.
type Entry struct {
	ID  string
	Seq uint64
	Tx  database.Tx
}

// Mempool represents a cache of pending transactions organized by id. Entries
// are picked in the order they were first submitted.
type Mempool struct {
	pool map[string]Entry
	seq  uint64
	mu   sync.RWMutex
}

// New constructs a new mempool.
func New() *Mempool {
	return &Mempool{
		pool: make(map[string]Entry),
	}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds or replaces a transaction in the mempool. An empty id
// generates a new one. A replaced transaction keeps its place in line.
func (mp *Mempool) Upsert(id string, tx database.Tx) (string, int) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}

	entry, exists := mp.pool[id]
	if !exists {
		mp.seq++
		entry = Entry{ID: id, Seq: mp.seq}
	}
	entry.Tx = tx

	mp.pool[id] = entry

	return id, len(mp.pool)
}

// Delete removed a transaction from the mempool.
func (mp *Mempool) Delete(id string) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	delete(mp.pool, id)
}

// Copy returns the pending transactions in submission order.
func (mp *Mempool) Copy() []Entry {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	entries := make([]Entry, 0, len(mp.pool))
	for _, entry := range mp.pool {
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Seq < entries[j].Seq
	})

	return entries
}

// PickNext returns the oldest pending transaction without removing it.
func (mp *Mempool) PickNext() (Entry, bool) {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	var next Entry
	var found bool
	for _, entry := range mp.pool {
		if !found || entry.Seq < next.Seq {
			next = entry
			found = true
		}
	}

	return next, found
}
