package registry

import (
	"sort"
	"sync"
)

// ConnID identifies a live transport connection. Values are assigned by the
// transport and are only meaningful while that connection is open.
type ConnID string

type entry struct {
	name string
	seq  uint64
}

// Registry maps connection identifiers to usernames. All methods are safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[ConnID]entry
	nextSeq uint64
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		entries: make(map[ConnID]entry),
	}
}

// Add stores username for id. Calling Add again for the same id replaces the
// name but keeps the connection's original join position.
func (r *Registry) Add(id ConnID, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		e.name = username
		r.entries[id] = e
		return
	}

	r.nextSeq++
	r.entries[id] = entry{name: username, seq: r.nextSeq}
}

// Remove deletes id and returns the name it was registered under. The second
// return value is false when id was not present.
func (r *Registry) Remove(id ConnID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return "", false
	}
	delete(r.entries, id)
	return e.name, true
}

// Lookup returns the username registered for id.
func (r *Registry) Lookup(id ConnID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	return e.name, ok
}

// FindConnectionByName returns the connection registered under username.
// Usernames are not unique; when several connections share one, the
// connection that joined first wins.
func (r *Registry) FindConnectionByName(username string) (ConnID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		found ConnID
		best  uint64
		ok    bool
	)
	for id, e := range r.entries {
		if e.name != username {
			continue
		}
		if !ok || e.seq < best {
			found, best, ok = id, e.seq, true
		}
	}
	return found, ok
}

// SnapshotNames returns the names of all joined connections in join order.
// The result is never nil.
func (r *Registry) SnapshotNames() []string {
	r.mu.RLock()
	snapshot := make([]entry, 0, len(r.entries))
	for _, e := range r.entries {
		snapshot = append(snapshot, e)
	}
	r.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].seq < snapshot[j].seq })

	names := make([]string, len(snapshot))
	for i, e := range snapshot {
		names[i] = e.name
	}
	return names
}

// Len returns the number of joined connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
