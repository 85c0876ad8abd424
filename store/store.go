// Package store provides the Record Store: a durable mapping from a string
// key to a JSON-encoded collection of records.
//
// A Store replaces the whole value of a key on every write. There is no
// optimistic-concurrency check, so callers that read, modify and write back a
// collection must hold the key's lock for the whole cycle (see Store.Lock).
// The bytes live in a Backend: a bolt file, a Postgres table or process memory.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Collection keys. They match the local-storage keys of the browser client so
// exported data can be imported as-is.
const (
	KeyMedicines     = "medicines"
	KeyProfile       = "profile"
	KeyFamilyMembers = "family_members"
)

// ErrCorrupted is matched by every *CorruptedError.
var ErrCorrupted = errors.New("stored data is corrupted")

// CorruptedError reports that the bytes stored under Key could not be decoded.
// The collection is unusable until it is rewritten or reset.
type CorruptedError struct {
	Key string
	Err error
}

func (e *CorruptedError) Error() string {
	return fmt.Sprintf("store key %q is corrupted: %v", e.Key, e.Err)
}

func (e *CorruptedError) Unwrap() error { return e.Err }

func (e *CorruptedError) Is(target error) bool { return target == ErrCorrupted }

// Backend persists raw values. Implementations must make Put durable before
// returning.
type Backend interface {
	// Get returns the value for key. ok is false if the key was never written.
	Get(key string) (value []byte, ok bool, err error)
	Put(key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	Close() error
}

// Store encodes collections as JSON on top of a Backend and serializes
// read-modify-write cycles per key.
type Store struct {
	backend Backend

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New returns a Store that persists into b.
func New(b Backend) *Store {
	return &Store{
		backend: b,
		locks:   make(map[string]*sync.Mutex),
	}
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Read decodes the value stored under key into v. It reports found=false,
// with a nil error, when the key has never been written; v is left untouched
// in that case. Undecodable data yields a *CorruptedError.
func (s *Store) Read(key string, v any) (found bool, err error) {
	data, ok, err := s.backend.Get(key)
	if err != nil {
		return false, fmt.Errorf("while reading key %q: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, &CorruptedError{Key: key, Err: err}
	}
	return true, nil
}

// Write replaces the value stored under key with the JSON encoding of v.
func (s *Store) Write(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("while encoding key %q: %w", key, err)
	}
	if err := s.backend.Put(key, data); err != nil {
		return fmt.Errorf("while writing key %q: %w", key, err)
	}
	return nil
}

// Reset drops the value stored under key, so the next Read reports it absent.
// It is the recovery path for a corrupted collection.
func (s *Store) Reset(key string) error {
	if err := s.backend.Delete(key); err != nil {
		return fmt.Errorf("while resetting key %q: %w", key, err)
	}
	return nil
}

// Lock acquires the writer lock for key and returns the function that
// releases it.
func (s *Store) Lock(key string) (unlock func()) {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
