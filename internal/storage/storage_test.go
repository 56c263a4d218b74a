package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sellerconsole/internal/leads"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	store, err := OpenPath(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := openMemory(t)

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "theme", "dark"))
	require.NoError(t, store.Put(ctx, "theme", "light"))
	value, err := store.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", value)

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].UpdatedAt.IsZero())

	require.NoError(t, store.Delete(ctx, "theme"))
	require.NoError(t, store.Delete(ctx, "theme"))
	_, err = store.Get(ctx, "theme")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, store.Put(ctx, " ", "x"))
}

func TestPreferencesRoundTrip(t *testing.T) {
	ctx := context.Background()
	prefs := NewPreferences(openMemory(t))

	f, err := prefs.LoadFilters(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, leads.DefaultFilters(), f)

	p, err := prefs.LoadPagination(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, leads.DefaultPagination(), p)

	want := leads.FilterState{Search: "acme", Status: "qualified", SortField: leads.SortByName, SortDirection: leads.Ascending}
	require.NoError(t, prefs.SaveFilters(ctx, want))
	require.NoError(t, prefs.SavePagination(ctx, leads.PaginationState{CurrentPage: 3, ItemsPerPage: 5}))

	f, err = prefs.LoadFilters(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, f)

	p, err = prefs.LoadPagination(ctx)
	require.NoError(t, err)
	assert.Equal(t, leads.PaginationState{CurrentPage: 3, ItemsPerPage: 5}, p)

	require.NoError(t, prefs.Reset(ctx))
	_, err = prefs.LoadFilters(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPreferencesStoredAsJSON(t *testing.T) {
	ctx := context.Background()
	store := openMemory(t)
	prefs := NewPreferences(store)

	require.NoError(t, prefs.SavePagination(ctx, leads.DefaultPagination()))
	raw, err := store.Get(ctx, PaginationKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"currentPage":1,"itemsPerPage":20}`, raw)
}

func TestPreferencesCorruptFallsBack(t *testing.T) {
	ctx := context.Background()
	store := openMemory(t)
	prefs := NewPreferences(store)

	cases := map[string]string{
		FiltersKey:    `{"search":`,
		PaginationKey: `{"currentPage":1,"itemsPerPage":7}`,
	}
	for key, value := range cases {
		require.NoError(t, store.Put(ctx, key, value))
	}

	f, err := prefs.LoadFilters(ctx)
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Equal(t, leads.DefaultFilters(), f)

	p, err := prefs.LoadPagination(ctx)
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Equal(t, leads.DefaultPagination(), p)

	require.NoError(t, store.Put(ctx, FiltersKey, `{"search":"","status":"","sortField":"email","sortDirection":"asc"}`))
	_, err = prefs.LoadFilters(ctx)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestStoreDatabaseErrors(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM preferences WHERE key = ?`)).
		WithArgs(FiltersKey).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO preferences`)).
		WithArgs(PaginationKey, `{"currentPage":2,"itemsPerPage":10}`, sqlmock.AnyArg()).
		WillReturnError(errors.New("database is locked"))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM preferences WHERE key = ?`)).
		WithArgs(FiltersKey).
		WillReturnError(errors.New("readonly database"))

	prefs := NewPreferences(store)
	f, err := prefs.LoadFilters(ctx)
	assert.ErrorContains(t, err, "disk I/O error")
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, leads.DefaultFilters(), f)

	err = prefs.SavePagination(ctx, leads.PaginationState{CurrentPage: 2, ItemsPerPage: 10})
	assert.ErrorContains(t, err, "database is locked")

	assert.Error(t, prefs.Reset(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreScansRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT key, value, updated_at FROM preferences ORDER BY key`)).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}).
			AddRow("a", "1", "2024-05-01T10:00:00Z").
			AddRow("b", "2", "garbage"))

	entries, err := New(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 2024, entries[0].UpdatedAt.Year())
	assert.True(t, entries[1].UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
