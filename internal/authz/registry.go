// Package authz holds the in-process allow-list of operator identities
// permitted to mutate the verification registry.
package authz

import "sync"

// Registry is the process-wide set of authorized numeric identities. It is
// seeded with the owner at construction, grows at runtime, and is never
// persisted: a restart resets it to the seed. Membership tests and inserts
// may run on concurrent handler invocations.
type Registry struct {
	mu      sync.RWMutex
	owner   int64
	members map[int64]struct{}
}

// New creates a registry seeded with the owner identity.
func New(owner int64) *Registry {
	return &Registry{
		owner:   owner,
		members: map[int64]struct{}{owner: {}},
	}
}

// IsAuthorized reports whether id may mutate the verification registry.
func (r *Registry) IsAuthorized(id int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[id]
	return ok
}

// Authorize adds id to the set. Idempotent. Owner-only enforcement is the
// command handler's responsibility, not this component's.
func (r *Registry) Authorize(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[id] = struct{}{}
}

// Owner returns the seeded owner identity; it is always a member.
func (r *Registry) Owner() int64 {
	return r.owner
}
