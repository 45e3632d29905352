package cache

import "sync"

// Partition is an independent keyed store for one query axis.
// It has no size bound and no expiry; entries live until Clear.
// Every Clear starts a new epoch.
type Partition[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
	epoch   uint64
}

// NewPartition creates an empty partition
func NewPartition[K comparable, V any]() *Partition[K, V] {
	return &Partition[K, V]{entries: make(map[K]V)}
}

// Get returns the cached value for key and whether it was present
func (p *Partition[K, V]) Get(key K) (V, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.entries[key]
	return v, ok
}

// Set stores value under key, replacing any previous entry
func (p *Partition[K, V]) Set(key K, value V) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[key] = value
}

// SetIfEpoch stores value only while the partition is still in epoch. It
// reports whether the value was stored.
func (p *Partition[K, V]) SetIfEpoch(key K, value V, epoch uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.epoch != epoch {
		return false
	}
	p.entries[key] = value
	return true
}

// Epoch returns the number of times the partition has been cleared
func (p *Partition[K, V]) Epoch() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.epoch
}

// Clear drops every entry and starts a new epoch
func (p *Partition[K, V]) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = make(map[K]V)
	p.epoch++
}

// Len returns the number of cached entries
func (p *Partition[K, V]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}
