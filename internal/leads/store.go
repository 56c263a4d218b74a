package leads

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates no lead has the requested id.
var ErrNotFound = errors.New("lead not found")

// Store holds the authoritative in-memory lead collection in load order.
type Store struct {
	leads []Lead
	index map[string]int
}

// NewStore builds a store from the loaded dataset. Later duplicates of an id are dropped.
func NewStore(initial []Lead) *Store {
	s := &Store{index: make(map[string]int, len(initial))}
	for _, l := range initial {
		if _, exists := s.index[l.ID]; exists {
			continue
		}
		s.index[l.ID] = len(s.leads)
		s.leads = append(s.leads, l)
	}
	return s
}

// All returns a copy of every lead in load order.
func (s *Store) All() []Lead {
	if s == nil {
		return nil
	}
	out := make([]Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

// Len returns the number of leads.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.leads)
}

// Get returns the lead with the given id.
func (s *Store) Get(id string) (Lead, error) {
	if s == nil {
		return Lead{}, ErrNotFound
	}
	idx, ok := s.index[id]
	if !ok {
		return Lead{}, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	return s.leads[idx], nil
}

// Update replaces the lead sharing l.ID, keeping its position.
func (s *Store) Update(l Lead) error {
	if s == nil {
		return ErrNotFound
	}
	idx, ok := s.index[l.ID]
	if !ok {
		return fmt.Errorf("update %q: %w", l.ID, ErrNotFound)
	}
	s.leads[idx] = l
	return nil
}

// OpportunityStore is the append-only opportunity collection.
type OpportunityStore struct {
	items []Opportunity
}

// NewOpportunityStore returns an empty store.
func NewOpportunityStore() *OpportunityStore {
	return &OpportunityStore{}
}

// Append adds an opportunity at the end; insertion order is display order.
func (s *OpportunityStore) Append(o Opportunity) {
	s.items = append(s.items, o)
}

// All returns a copy of the opportunities in insertion order.
func (s *OpportunityStore) All() []Opportunity {
	if s == nil {
		return nil
	}
	out := make([]Opportunity, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of opportunities.
func (s *OpportunityStore) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}
