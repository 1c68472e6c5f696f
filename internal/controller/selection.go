package controller

import (
	"sync"

	"github.com/mesh-intelligence/catalog/internal/binding"
)

// Selection records the current Author and its entity context. The zero
// value has nothing selected.
type Selection struct {
	mu       sync.Mutex
	authorID string
	context  *binding.Context
}

// Select records id as the current Author. c may be nil when the row is not
// in the bound list.
func (s *Selection) Select(id string, c *binding.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authorID = id
	s.context = c
}

// Current returns the selected Author's identity, or "".
func (s *Selection) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authorID
}

// Context returns the selected Author's entity context, or nil.
func (s *Selection) Context() *binding.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.context
}

// Clear drops the selection.
func (s *Selection) Clear() {
	s.Select("", nil)
}

// exactlyOne returns the single element of ids or ErrSelectExactlyOne.
func exactlyOne(ids []string) (string, error) {
	if len(ids) != 1 || ids[0] == "" {
		return "", ErrSelectExactlyOne
	}
	return ids[0], nil
}
