package nethttp

import (
	"fmt"
	"slices"
	"sync"
)

// GroupKey names a set of subscriptions that are cancelled together.
// Keys made by [Group] are equal when their names are. Keys made by
// [GroupOf] are equal only when they point at the same value. The zero
// GroupKey means no group.
type GroupKey struct {
	name string
	ref  any
}

// Group returns a key compared by name. An empty name is the zero key.
func Group(name string) GroupKey {
	return GroupKey{name: name}
}

// GroupOf returns a key compared by the identity of owner, typically
// the component that issued the calls. A nil owner is the zero key.
//
// owner must point at a value with a non-zero size; distinct pointers
// to zero-size values may compare equal.
func GroupOf[T any](owner *T) GroupKey {
	if owner == nil {
		return GroupKey{}
	}

	return GroupKey{ref: owner}
}

// IsZero reports whether k is the zero key.
func (k GroupKey) IsZero() bool {
	return k == GroupKey{}
}

func (k GroupKey) String() string {
	if k.ref != nil {
		return fmt.Sprintf("%T(%p)", k.ref, k.ref)
	}

	return k.name
}

// groupRegistry tracks subscriptions per key. A key with no
// subscriptions is never stored.
type groupRegistry struct {
	mu     sync.Mutex
	groups map[GroupKey][]*Subscription
}

func newGroupRegistry() *groupRegistry {
	return &groupRegistry{groups: make(map[GroupKey][]*Subscription)}
}

func (r *groupRegistry) register(key GroupKey, sub *Subscription) {
	if key.IsZero() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.groups[key] = append(r.groups[key], sub)
}

// clear cancels every subscription of key and forgets the key.
func (r *groupRegistry) clear(key GroupKey) {
	r.mu.Lock()
	subs, ok := r.groups[key]
	delete(r.groups, key)
	r.mu.Unlock()

	if !ok {
		return
	}

	for _, sub := range subs {
		sub.Cancel()
	}
}

func (r *groupRegistry) clearAll() {
	r.mu.Lock()
	groups := r.groups
	r.groups = make(map[GroupKey][]*Subscription)
	r.mu.Unlock()

	for _, subs := range groups {
		for _, sub := range subs {
			sub.Cancel()
		}
	}
}

func (r *groupRegistry) get(key GroupKey) []*Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.groups[key])
}

func (r *groupRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.groups)
}

// /////////////////////////////////////////////////////////////////
// Service group management

// ClearSubscriptions cancels every call registered under key and
// forgets the key. Unknown keys are ignored.
func (s *Service) ClearSubscriptions(key GroupKey) {
	s.groups.clear(key)
}

// ClearAllSubscriptions cancels every grouped call and forgets every key.
func (s *Service) ClearAllSubscriptions() {
	s.groups.clearAll()
}

// Subscriptions returns the calls registered under key, in
// registration order. Finished calls stay listed until the key is cleared.
func (s *Service) Subscriptions(key GroupKey) []*Subscription {
	return s.groups.get(key)
}
