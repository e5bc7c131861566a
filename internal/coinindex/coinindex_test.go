package coinindex

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func testCatalog() []Entry {
	return []Entry{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
		{ID: "batcat", Symbol: "btc", Name: "Batcat"},
		{ID: "wrapped-bitcoin", Symbol: "wbtc", Name: "Wrapped Bitcoin"},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
	}
}

func TestRefreshIfStaleFetchesOnce(t *testing.T) {
	calls := 0
	cache := New(Config{
		Name: "test",
		Fetch: func(ctx context.Context) ([]Entry, error) {
			calls++
			return testCatalog(), nil
		},
	})

	require.NoError(t, cache.RefreshIfStale(context.Background()))
	require.NoError(t, cache.RefreshIfStale(context.Background()))
	require.NoError(t, cache.RefreshIfStale(context.Background()))

	require.Equal(t, 1, calls)
	require.Equal(t, 4, cache.Len())
}

func TestRefreshIfStaleAfterTTL(t *testing.T) {
	calls := 0
	cache := New(Config{
		Name: "test",
		TTL:  time.Millisecond,
		Fetch: func(ctx context.Context) ([]Entry, error) {
			calls++
			return testCatalog(), nil
		},
	})

	require.NoError(t, cache.RefreshIfStale(context.Background()))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, cache.RefreshIfStale(context.Background()))

	require.Equal(t, 2, calls)
}

func TestRefreshReplacesSnapshotWholesale(t *testing.T) {
	catalog := testCatalog()
	cache := New(Config{
		Name: "test",
		Fetch: func(ctx context.Context) ([]Entry, error) {
			return catalog, nil
		},
	})

	require.NoError(t, cache.ForceRefresh(context.Background()))
	require.Len(t, cache.Lookup("btc"), 2)

	catalog = []Entry{{ID: "ethereum", Symbol: "eth", Name: "Ethereum"}}
	require.NoError(t, cache.ForceRefresh(context.Background()))

	require.Empty(t, cache.Lookup("btc"))
	require.Len(t, cache.Lookup("eth"), 1)
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	fail := false
	cache := New(Config{
		Name: "test",
		Fetch: func(ctx context.Context) ([]Entry, error) {
			if fail {
				return nil, errors.New("upstream down")
			}
			return testCatalog(), nil
		},
	})

	require.NoError(t, cache.ForceRefresh(context.Background()))

	fail = true
	err := cache.ForceRefresh(context.Background())
	require.Error(t, err)

	require.Equal(t, 4, cache.Len())
	require.True(t, cache.Populated())
	require.Len(t, cache.Lookup("btc"), 2)
}

func TestLookupNormalizesSymbol(t *testing.T) {
	cache := New(Config{
		Name:  "test",
		Fetch: func(ctx context.Context) ([]Entry, error) { return testCatalog(), nil },
	})
	require.NoError(t, cache.ForceRefresh(context.Background()))

	require.Len(t, cache.Lookup("BTC"), 2)
	require.Len(t, cache.Lookup("Btc"), 2)
	require.Len(t, cache.Lookup("btc"), 2)
}

func TestLookupCustomNormalize(t *testing.T) {
	cache := New(Config{
		Name:      "test",
		Normalize: strings.ToUpper,
		Fetch: func(ctx context.Context) ([]Entry, error) {
			return []Entry{{ID: "1", Symbol: "BTC", Name: "Bitcoin"}}, nil
		},
	})
	require.NoError(t, cache.ForceRefresh(context.Background()))

	require.Len(t, cache.Lookup("btc"), 1)
	require.Len(t, cache.Lookup("BTC"), 1)
}

func TestLookupAppliesExclusion(t *testing.T) {
	cache := New(Config{
		Name:    "test",
		Fetch:   func(ctx context.Context) ([]Entry, error) { return testCatalog(), nil },
		Exclude: func(id string) bool { return strings.Contains(id, "wrapped") },
	})
	require.NoError(t, cache.ForceRefresh(context.Background()))

	require.Empty(t, cache.Lookup("wbtc"))
	require.Len(t, cache.Lookup("btc"), 2)
}

func TestLookupEmptySymbol(t *testing.T) {
	cache := New(Config{
		Name:  "test",
		Fetch: func(ctx context.Context) ([]Entry, error) { return testCatalog(), nil },
	})
	require.NoError(t, cache.ForceRefresh(context.Background()))

	matches := cache.Lookup("")
	require.NotNil(t, matches)
	require.Empty(t, matches)
}

func TestByID(t *testing.T) {
	cache := New(Config{
		Name:  "test",
		Fetch: func(ctx context.Context) ([]Entry, error) { return testCatalog(), nil },
	})
	require.NoError(t, cache.ForceRefresh(context.Background()))

	entry, ok := cache.ByID("batcat")
	require.True(t, ok)
	require.Equal(t, "Batcat", entry.Name)

	_, ok = cache.ByID("dogecoin")
	require.False(t, ok)
}

func TestPopulated(t *testing.T) {
	cache := New(Config{
		Name:  "test",
		Fetch: func(ctx context.Context) ([]Entry, error) { return nil, errors.New("down") },
	})

	require.False(t, cache.Populated())
	require.Error(t, cache.ForceRefresh(context.Background()))
	require.False(t, cache.Populated())
}
