package robot

import (
	"maps"
	"slices"
	"sync"
)

// Blackboard is the shared memory between a robot's sensors and its
// controller. Sensors write readings under their own name and the controller
// reads them back during Think.
type Blackboard struct {
	mu      sync.RWMutex
	data    map[string]any
	version int64
}

func NewBlackboard() *Blackboard {
	return &Blackboard{data: make(map[string]any)}
}

// Set stores a value and bumps the version.
func (bb *Blackboard) Set(key string, value any) {
	bb.mu.Lock()
	defer bb.mu.Unlock()

	bb.data[key] = value
	bb.version++
}

func (bb *Blackboard) Get(key string) (any, bool) {
	bb.mu.RLock()
	defer bb.mu.RUnlock()

	value, exists := bb.data[key]
	return value, exists
}

func (bb *Blackboard) GetString(key string) (string, bool) {
	value, exists := bb.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

// GetFloat accepts float64 and int values.
func (bb *Blackboard) GetFloat(key string) (float64, bool) {
	value, exists := bb.Get(key)
	if !exists {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func (bb *Blackboard) GetBool(key string) (bool, bool) {
	value, exists := bb.Get(key)
	if !exists {
		return false, false
	}
	b, ok := value.(bool)
	return b, ok
}

func (bb *Blackboard) Has(key string) bool {
	_, exists := bb.Get(key)
	return exists
}

func (bb *Blackboard) Delete(key string) {
	bb.mu.Lock()
	defer bb.mu.Unlock()

	if _, ok := bb.data[key]; !ok {
		return
	}
	delete(bb.data, key)
	bb.version++
}

// Keys returns the stored keys in sorted order.
func (bb *Blackboard) Keys() []string {
	bb.mu.RLock()
	defer bb.mu.RUnlock()

	return slices.Sorted(maps.Keys(bb.data))
}

// Version increases on every mutation.
func (bb *Blackboard) Version() int64 {
	bb.mu.RLock()
	defer bb.mu.RUnlock()

	return bb.version
}

// Snapshot returns a shallow copy of the stored values.
func (bb *Blackboard) Snapshot() map[string]any {
	bb.mu.RLock()
	defer bb.mu.RUnlock()

	return maps.Clone(bb.data)
}
