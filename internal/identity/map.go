// Package identity provides the per-store identity map that guarantees at
// most one in-memory instance per loaded primary key.
package identity

// Map caches loaded records by primary key. It performs no locking and is
// not safe for concurrent use.
type Map[T any] struct {
	items map[int64]*T
}

// New returns an empty Map.
func New[T any]() *Map[T] {
	return &Map[T]{items: make(map[int64]*T)}
}

// Get returns the instance registered for id.
func (m *Map[T]) Get(id int64) (*T, bool) {
	item, ok := m.items[id]
	return item, ok
}

// Put registers item under id, replacing any previous instance.
func (m *Map[T]) Put(id int64, item *T) {
	m.items[id] = item
}

// Evict drops the instance registered for id, if any.
func (m *Map[T]) Evict(id int64) {
	delete(m.items, id)
}

// Len returns the number of registered instances.
func (m *Map[T]) Len() int {
	return len(m.items)
}

// Reconcile folds a freshly loaded row into the map. When an instance is
// already registered for id its fields are overwritten with loaded and the
// existing pointer is returned; otherwise loaded itself is registered.
func (m *Map[T]) Reconcile(id int64, loaded *T) *T {
	if existing, ok := m.items[id]; ok {
		*existing = *loaded
		return existing
	}
	m.items[id] = loaded
	return loaded
}

// Clear drops every registered instance.
func (m *Map[T]) Clear() {
	clear(m.items)
}
