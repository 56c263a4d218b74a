package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sellerconsole/internal/leads"
)

// Well-known preference keys.
const (
	FiltersKey    = "seller-console-filters"
	PaginationKey = "seller-console-pagination"
)

// ErrCorrupt indicates a stored value that could not be decoded or holds
// values outside the allowed vocabulary.
var ErrCorrupt = errors.New("corrupt preference")

// Preferences persists the view state under the two well-known keys.
type Preferences struct {
	store *Store
}

// NewPreferences wraps a store.
func NewPreferences(store *Store) *Preferences {
	return &Preferences{store: store}
}

// LoadFilters returns the persisted filter state, or the defaults together
// with the reason when the key is absent or corrupt.
func (p *Preferences) LoadFilters(ctx context.Context) (leads.FilterState, error) {
	var f leads.FilterState
	if err := p.load(ctx, FiltersKey, &f); err != nil {
		return leads.DefaultFilters(), err
	}
	if !f.Valid() {
		return leads.DefaultFilters(), fmt.Errorf("%s: %w", FiltersKey, ErrCorrupt)
	}
	return f, nil
}

// LoadPagination returns the persisted pagination state, or the defaults
// together with the reason when the key is absent or corrupt.
func (p *Preferences) LoadPagination(ctx context.Context) (leads.PaginationState, error) {
	var pg leads.PaginationState
	if err := p.load(ctx, PaginationKey, &pg); err != nil {
		return leads.DefaultPagination(), err
	}
	if !pg.Valid() {
		return leads.DefaultPagination(), fmt.Errorf("%s: %w", PaginationKey, ErrCorrupt)
	}
	return pg, nil
}

// SaveFilters writes the filter state.
func (p *Preferences) SaveFilters(ctx context.Context, f leads.FilterState) error {
	return p.save(ctx, FiltersKey, f)
}

// SavePagination writes the pagination state.
func (p *Preferences) SavePagination(ctx context.Context, pg leads.PaginationState) error {
	return p.save(ctx, PaginationKey, pg)
}

// Reset removes both keys so the next start uses the defaults.
func (p *Preferences) Reset(ctx context.Context) error {
	for _, key := range []string{FiltersKey, PaginationKey} {
		if err := p.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (p *Preferences) load(ctx context.Context, key string, dst interface{}) error {
	raw, err := p.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("%s: %w: %v", key, ErrCorrupt, err)
	}
	return nil
}

func (p *Preferences) save(ctx context.Context, key string, value interface{}) error {
	bytes, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return p.store.Put(ctx, key, string(bytes))
}
