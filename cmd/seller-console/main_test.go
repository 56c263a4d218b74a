package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sellerconsole/internal/leads"
	"sellerconsole/internal/storage"
)

func TestShowPreferences(t *testing.T) {
	ctx := context.Background()
	db, err := storage.OpenPath(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	var out bytes.Buffer
	require.NoError(t, showPreferences(ctx, &out, db))
	assert.Contains(t, out.String(), "Preferences in :memory:")
	assert.Contains(t, out.String(), "No saved preferences.")

	prefs := storage.NewPreferences(db)
	require.NoError(t, prefs.SavePagination(ctx, leads.PaginationState{CurrentPage: 2, ItemsPerPage: 10}))
	require.NoError(t, prefs.SaveFilters(ctx, leads.DefaultFilters()))

	out.Reset()
	require.NoError(t, showPreferences(ctx, &out, db))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], storage.FiltersKey))
	assert.True(t, strings.HasPrefix(lines[2], storage.PaginationKey))
	assert.Contains(t, lines[2], `"itemsPerPage":10`)
}

func TestShowPreferencesClosedStore(t *testing.T) {
	ctx := context.Background()
	db, err := storage.OpenPath(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	var out bytes.Buffer
	assert.Error(t, showPreferences(ctx, &out, db))
}
