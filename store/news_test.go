package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightsphere/insight-go/client"
)

func newNewsFixture(t *testing.T, handler http.HandlerFunc) (*NewsStore, *Recorder) {
	t.Helper()
	hs := httptest.NewServer(handler)
	t.Cleanup(hs.Close)
	notes := &Recorder{}
	return NewNewsStore(client.New(hs.URL), notes), notes
}

func TestFilterLifecycle(t *testing.T) {
	n := NewNewsStore(client.New("http://localhost:0"), &Recorder{})

	assert.Equal(t, FilterState{Days: 7}, n.Filters())

	require.NoError(t, n.SetFilter("days", 30))
	require.NoError(t, n.SetFilter("category", "tech"))
	assert.Equal(t, FilterState{Category: "tech", Days: 30}, n.Filters())

	// Each mutation touches exactly one field.
	require.NoError(t, n.SetFilter("source", "bbc"))
	assert.Equal(t, FilterState{Category: "tech", Source: "bbc", Days: 30}, n.Filters())

	n.ClearFilters()
	assert.Equal(t, FilterState{Days: 7}, n.Filters())
}

func TestSetFilterRejectsBadInput(t *testing.T) {
	n := NewNewsStore(client.New("http://localhost:0"), &Recorder{})
	assert.Error(t, n.SetFilter("nope", "x"))
	assert.Error(t, n.SetFilter("days", "thirty"))
	assert.Error(t, n.SetFilter("category", 3))
	assert.Equal(t, FilterState{Days: 7}, n.Filters(), "failed mutations must not change state")
}

func TestFetchLatestNewsAppliesFilters(t *testing.T) {
	var query url.Values
	n, _ := newNewsFixture(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`[{"title":"a","description":"d","url":"https://example.com/a","publishedAt":"2025-01-01T00:00:00Z","source":{"name":"Example"}}]`))
	})

	require.NoError(t, n.SetFilter("category", "tech"))
	require.NoError(t, n.SetFilter("days", 14))

	assert.False(t, n.IsLoadingNews())
	require.True(t, n.FetchLatestNews(context.Background()))
	assert.False(t, n.IsLoadingNews())

	require.Len(t, n.Articles(), 1)
	assert.Equal(t, "tech", query.Get("category"))
	assert.Equal(t, "14", query.Get("days"))
}

func TestFetchFailureNotifiesAndClearsFlag(t *testing.T) {
	n, notes := newNewsFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"database unavailable"}`))
	})

	require.False(t, n.FetchLatestNews(context.Background()))
	assert.False(t, n.IsLoadingNews())
	assert.Empty(t, n.Articles())
	assert.Contains(t, notes.Errors(), "database unavailable")

	require.False(t, n.FetchSources(context.Background()))
	assert.False(t, n.IsLoadingSources())

	require.False(t, n.FetchSentimentTrends(context.Background()))
	assert.False(t, n.IsLoadingAnalysis())
}

func TestFetchFailureFallbackMessages(t *testing.T) {
	n, notes := newNewsFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	require.False(t, n.SearchNews(context.Background(), "climate"))
	require.False(t, n.FetchCategories(context.Background()))
	require.False(t, n.FetchTopEntities(context.Background()))

	errs := notes.Errors()
	assert.Contains(t, errs, "Failed to search news")
	assert.Contains(t, errs, "Failed to fetch news categories")
	assert.Contains(t, errs, "Failed to fetch top entities")
}

func TestCategoryNormalizationAndSearch(t *testing.T) {
	n, _ := newNewsFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["Tech", {"id":"1","name":"Sports","description":""}]`))
	})

	require.True(t, n.FetchCategories(context.Background()))

	categories := n.Categories()
	require.Len(t, categories, 2)
	for _, c := range categories {
		assert.NotEmpty(t, c.ID)
		assert.NotEmpty(t, c.Name)
	}

	matched := n.SearchCategories("spo")
	require.Len(t, matched, 1)
	assert.Equal(t, "Sports", matched[0].Name)
}

func TestAnalysisAggregatesStoredVerbatim(t *testing.T) {
	payload := `{"distribution":[{"category":"tech","count":12}]}`
	n, _ := newNewsFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	})

	require.True(t, n.FetchCategoryDistribution(context.Background()))
	assert.JSONEq(t, payload, string(n.CategoryDistribution()))

	require.True(t, n.FetchSourceAnalysis(context.Background()))
	assert.JSONEq(t, payload, string(n.SourceAnalysis()))
}

// TestLastResponseWinsRace pins down the documented (unprotected) boundary:
// when an older fetch completes after a newer one for the same state slice,
// the older response overwrites the newer. Nothing sequences in-flight
// requests and nothing cancels them.
func TestLastResponseWinsRace(t *testing.T) {
	firstArrived := make(chan struct{})
	releaseFirst := make(chan struct{})
	var calls int
	var mu sync.Mutex

	n, _ := newNewsFixture(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		nth := calls
		mu.Unlock()

		if nth == 1 {
			close(firstArrived)
			<-releaseFirst
			_, _ = w.Write([]byte(`[{"title":"stale","description":"","url":"https://example.com/stale","publishedAt":"2025-01-01T00:00:00Z","source":{"name":"s"}}]`))
			return
		}
		_, _ = w.Write([]byte(`[{"title":"fresh","description":"","url":"https://example.com/fresh","publishedAt":"2025-01-02T00:00:00Z","source":{"name":"s"}}]`))
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		n.FetchLatestNews(context.Background())
	}()

	<-firstArrived
	// The newer fetch completes while the older one is still in flight.
	require.True(t, n.FetchLatestNews(context.Background()))
	require.Len(t, n.Articles(), 1)
	assert.Equal(t, "fresh", n.Articles()[0].Title)

	// Now the older response lands and overwrites the fresher data.
	close(releaseFirst)
	wg.Wait()
	require.Len(t, n.Articles(), 1)
	assert.Equal(t, "stale", n.Articles()[0].Title)
	assert.False(t, n.IsLoadingNews())
}

func TestNewsStoreReset(t *testing.T) {
	n, _ := newNewsFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["Tech"]`))
	})
	require.True(t, n.FetchCategories(context.Background()))
	require.NoError(t, n.SetFilter("days", 30))

	n.Reset()
	assert.Empty(t, n.Categories())
	assert.Equal(t, FilterState{Days: 7}, n.Filters())
}
