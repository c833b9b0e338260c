package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/illarion/spam/internal/codec"
)

// Store is the in-memory account mapping of an unlocked vault.
// Names are unique; insertion order is kept for serialization.
type Store struct {
	secrets  map[string]string
	order    []string
	suffix   Suffixer
	revision uint64
}

// Option configures a Store
type Option func(*Store)

// WithSuffixer replaces the random suffix source used by merge and import
func WithSuffixer(fn Suffixer) Option {
	return func(s *Store) {
		if fn != nil {
			s.suffix = fn
		}
	}
}

// NewStore creates an empty store
func NewStore(opts ...Option) *Store {
	s := &Store{
		secrets: make(map[string]string),
		suffix:  UUIDSuffix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStoreFromEntries builds a store from parsed entries.
// A repeated name keeps the last secret, at the position of its first occurrence.
func NewStoreFromEntries(entries []codec.Entry, opts ...Option) *Store {
	s := NewStore(opts...)
	for _, e := range entries {
		s.Add(e.Name, e.Secret)
	}
	s.revision = 0
	return s
}

// Add inserts or silently overwrites an account
func (s *Store) Add(name, secret string) {
	if _, ok := s.secrets[name]; !ok {
		s.order = append(s.order, name)
	}
	s.secrets[name] = secret
	s.revision++
}

// Modify replaces the secret of an account; it behaves exactly like Add
func (s *Store) Modify(name, secret string) {
	s.Add(name, secret)
}

// Remove deletes an account; absent names are ignored
func (s *Store) Remove(name string) {
	if _, ok := s.secrets[name]; !ok {
		return
	}
	delete(s.secrets, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.revision++
}

// Exists reports whether an account is present
func (s *Store) Exists(name string) bool {
	_, ok := s.secrets[name]
	return ok
}

// Get returns the secret of an account
func (s *Store) Get(name string) (string, bool) {
	secret, ok := s.secrets[name]
	return secret, ok
}

// Len returns the number of accounts
func (s *Store) Len() int {
	return len(s.order)
}

// Keys returns account names in insertion order
func (s *Store) Keys() []string {
	keys := make([]string, len(s.order))
	copy(keys, s.order)
	return keys
}

// SortedKeys returns account names sorted for display, ignoring case
func (s *Store) SortedKeys() []string {
	keys := s.Keys()
	sortNames(keys)
	return keys
}

// Search returns the sorted names containing pattern, ignoring case
func (s *Store) Search(pattern string) []string {
	needle := strings.ToLower(pattern)
	var found []string
	for _, name := range s.order {
		if strings.Contains(strings.ToLower(name), needle) {
			found = append(found, name)
		}
	}
	sortNames(found)
	return found
}

// Rename moves the secret of oldName to newName
func (s *Store) Rename(oldName, newName string) error {
	if err := ValidateName(newName); err != nil {
		return err
	}
	secret, ok := s.secrets[oldName]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, oldName)
	}
	if s.Exists(newName) {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, newName)
	}

	s.Add(newName, secret)
	s.Remove(oldName)
	return nil
}

// Entries returns all accounts in insertion order
func (s *Store) Entries() []codec.Entry {
	entries := make([]codec.Entry, 0, len(s.order))
	for _, name := range s.order {
		entries = append(entries, codec.Entry{Name: name, Secret: s.secrets[name]})
	}
	return entries
}

// Export serializes the store into the plaintext name=secret format
func (s *Store) Export() []byte {
	return codec.Serialize(s.Entries())
}

// Revision counts mutations since the store was loaded
func (s *Store) Revision() uint64 {
	return s.revision
}

func sortNames(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})
}
