package ai

import (
	"errors"
	"sync"
)

// ErrEmptyPool is returned when a rotator is built without credentials.
var ErrEmptyPool = errors.New("credential pool must not be empty")

// CredentialRotator holds the ordered credential pool and the shared
// rotation pointer. The pointer is process-wide state: every call takes
// the current credential and advances, so call order determines which
// credential an unrelated later call gets. Tests seed the pointer
// explicitly for determinism.
type CredentialRotator struct {
	mu          sync.Mutex
	credentials []string
	index       int
}

// NewCredentialRotator creates a rotator over an ordered pool.
func NewCredentialRotator(credentials []string) (*CredentialRotator, error) {
	if len(credentials) == 0 {
		return nil, ErrEmptyPool
	}
	pool := make([]string, len(credentials))
	copy(pool, credentials)
	return &CredentialRotator{credentials: pool}, nil
}

// Next returns the credential at the pointer and advances it.
func (r *CredentialRotator) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	cred := r.credentials[r.index]
	r.index = (r.index + 1) % len(r.credentials)
	return cred
}

// Len returns the pool size, which bounds rotation attempts per call.
func (r *CredentialRotator) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.credentials)
}

// Seed positions the pointer. Intended for tests.
func (r *CredentialRotator) Seed(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.index = ((index % len(r.credentials)) + len(r.credentials)) % len(r.credentials)
}

// Position returns the current pointer position.
func (r *CredentialRotator) Position() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}
