package updates

import (
	"sync"

	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/google/uuid"
)

type callbackEntry struct {
	owner    callerauth.ApplicationIdentity
	callback Callback
}

// CallbackRegistry hands out one-shot callback ids the browser uses to answer a change request.
type CallbackRegistry struct {
	mu      sync.Mutex
	entries map[string]callbackEntry
}

func NewCallbackRegistry() *CallbackRegistry {
	return &CallbackRegistry{entries: make(map[string]callbackEntry)}
}

// Register stores the callback for answers coming from owner and returns its id.
func (r *CallbackRegistry) Register(owner callerauth.ApplicationIdentity, callback Callback) string {
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = callbackEntry{owner: owner, callback: callback}
	return id
}

// Take removes and returns the callback. A caller other than the owner gets ErrIdentityConflict
// and the callback stays registered.
func (r *CallbackRegistry) Take(id string, caller callerauth.ApplicationIdentity) (Callback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, ErrCallbackNotFound
	}
	if !entry.owner.Equal(caller) {
		return nil, ErrIdentityConflict
	}
	delete(r.entries, id)
	return entry.callback, nil
}

// Remove drops the callback if still registered.
func (r *CallbackRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Release drops every callback still waiting for an answer that delivers to callback
// and returns how many were dropped. The callback must be comparable.
func (r *CallbackRegistry) Release(callback Callback) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	released := 0
	for id, entry := range r.entries {
		if entry.callback == callback {
			delete(r.entries, id)
			released++
		}
	}
	return released
}

// Len returns the number of pending callbacks.
func (r *CallbackRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
