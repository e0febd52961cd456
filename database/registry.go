package database

import "sync"

// MemoryRegistry is a process-local DocumentRegistry guarded by an
// RWMutex. It is the only shared mutable state in the service.
type MemoryRegistry struct {
	mu      sync.RWMutex
	indexes map[string]VectorIndex
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		indexes: make(map[string]VectorIndex),
	}
}

func (r *MemoryRegistry) Get(name string) (VectorIndex, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	index, ok := r.indexes[name]
	return index, ok
}

func (r *MemoryRegistry) Put(name string, index VectorIndex) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexes[name] = index
}

func (r *MemoryRegistry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.indexes, name)
}
