package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/insightsphere/insight-go/client"
)

// DefaultDays is the default analysis window.
const DefaultDays = 7

// FilterState is the active filter selection. It is read by every fetch
// that accepts filtering and mutated only through SetFilter/ClearFilters.
// Mutating a filter never triggers a fetch; the view layer re-fetches.
type FilterState struct {
	Category string
	Source   string
	Days     int
}

// DefaultFilters returns the reset state.
func DefaultFilters() FilterState { return FilterState{Days: DefaultDays} }

func (f FilterState) params() client.Params {
	return client.Params{Category: f.Category, Source: f.Source, Days: f.Days}
}

// NewsStore owns the fetched news and analysis state. Each slice is
// replaced wholesale by its fetch operation; concurrent fetches of the same
// slice race and the last response to complete wins. Loading flags are
// independent per operation family, so unrelated fetches overlap freely.
type NewsStore struct {
	api    *client.Client
	notify Notifier

	mu         sync.Mutex
	articles   []client.Article
	sources    []string
	categories []client.Category
	filters    FilterState

	sentimentTrends      json.RawMessage
	topEntities          json.RawMessage
	categoryDistribution json.RawMessage
	sourceAnalysis       json.RawMessage

	loadingNews       bool
	loadingSources    bool
	loadingCategories bool
	loadingAnalysis   bool
}

func NewNewsStore(api *client.Client, notify Notifier) *NewsStore {
	if notify == nil {
		notify = LogNotifier{}
	}
	return &NewsStore{api: api, notify: notify, filters: DefaultFilters()}
}

// ------------------------------
// State accessors
// ------------------------------

func (n *NewsStore) Articles() []client.Article {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.articles
}

func (n *NewsStore) Sources() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sources
}

func (n *NewsStore) Categories() []client.Category {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.categories
}

func (n *NewsStore) SentimentTrends() json.RawMessage      { return n.raw(&n.sentimentTrends) }
func (n *NewsStore) TopEntities() json.RawMessage          { return n.raw(&n.topEntities) }
func (n *NewsStore) CategoryDistribution() json.RawMessage { return n.raw(&n.categoryDistribution) }
func (n *NewsStore) SourceAnalysis() json.RawMessage       { return n.raw(&n.sourceAnalysis) }

func (n *NewsStore) raw(slot *json.RawMessage) json.RawMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return *slot
}

func (n *NewsStore) Filters() FilterState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.filters
}

func (n *NewsStore) IsLoadingNews() bool       { return n.flag(&n.loadingNews) }
func (n *NewsStore) IsLoadingSources() bool    { return n.flag(&n.loadingSources) }
func (n *NewsStore) IsLoadingCategories() bool { return n.flag(&n.loadingCategories) }
func (n *NewsStore) IsLoadingAnalysis() bool   { return n.flag(&n.loadingAnalysis) }

func (n *NewsStore) flag(f *bool) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return *f
}

func (n *NewsStore) setFlag(f *bool, v bool) {
	n.mu.Lock()
	*f = v
	n.mu.Unlock()
}

// ------------------------------
// Filter operations
// ------------------------------

// SetFilter mutates exactly one named filter field, preserving the others.
// Keys: "category", "source" (string value), "days" (int value).
func (n *NewsStore) SetFilter(key string, value any) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch key {
	case "category":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("category filter wants a string, got %T", value)
		}
		n.filters.Category = s
	case "source":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("source filter wants a string, got %T", value)
		}
		n.filters.Source = s
	case "days":
		d, ok := value.(int)
		if !ok {
			return fmt.Errorf("days filter wants an int, got %T", value)
		}
		n.filters.Days = d
	default:
		return fmt.Errorf("unknown filter %q", key)
	}
	return nil
}

// ClearFilters resets the selection to {category: "", source: "", days: 7}.
func (n *NewsStore) ClearFilters() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.filters = DefaultFilters()
}

// ------------------------------
// Fetch operations
// ------------------------------
// Every fetch follows the same shape: set the family loading flag, call one
// read-only endpoint with the current filter state, replace the owned slice
// wholesale on success, notify on failure, clear the flag on every exit.

func (n *NewsStore) FetchLatestNews(ctx context.Context) bool {
	n.setFlag(&n.loadingNews, true)
	defer n.setFlag(&n.loadingNews, false)

	articles, err := n.api.LatestNews(ctx, n.Filters().params())
	if err != nil {
		n.notify.Error(detailOr(err, "Failed to fetch latest news"))
		return false
	}
	n.mu.Lock()
	n.articles = articles
	n.mu.Unlock()
	return true
}

func (n *NewsStore) SearchNews(ctx context.Context, query string) bool {
	n.setFlag(&n.loadingNews, true)
	defer n.setFlag(&n.loadingNews, false)

	articles, err := n.api.SearchNews(ctx, query, n.Filters().params())
	if err != nil {
		n.notify.Error(detailOr(err, "Failed to search news"))
		return false
	}
	n.mu.Lock()
	n.articles = articles
	n.mu.Unlock()
	return true
}

// FetchNewsByCategory loads the article list of one category into the
// articles slice (the categories page flow).
func (n *NewsStore) FetchNewsByCategory(ctx context.Context, categoryID string) bool {
	n.setFlag(&n.loadingNews, true)
	defer n.setFlag(&n.loadingNews, false)

	articles, err := n.api.NewsByCategory(ctx, categoryID, n.Filters().params())
	if err != nil {
		n.notify.Error(detailOr(err, "Failed to fetch news articles"))
		return false
	}
	n.mu.Lock()
	n.articles = articles
	n.mu.Unlock()
	return true
}

func (n *NewsStore) FetchSources(ctx context.Context) bool {
	n.setFlag(&n.loadingSources, true)
	defer n.setFlag(&n.loadingSources, false)

	sources, err := n.api.Sources(ctx)
	if err != nil {
		n.notify.Error(detailOr(err, "Failed to fetch news sources"))
		return false
	}
	n.mu.Lock()
	n.sources = sources
	n.mu.Unlock()
	return true
}

func (n *NewsStore) FetchCategories(ctx context.Context) bool {
	n.setFlag(&n.loadingCategories, true)
	defer n.setFlag(&n.loadingCategories, false)

	categories, err := n.api.Categories(ctx)
	if err != nil {
		n.notify.Error(detailOr(err, "Failed to fetch news categories"))
		return false
	}
	n.mu.Lock()
	n.categories = categories
	n.mu.Unlock()
	return true
}

// SearchCategories filters the normalized category list by name,
// case-insensitively.
func (n *NewsStore) SearchCategories(query string) []client.Category {
	var out []client.Category
	for _, c := range n.Categories() {
		if c.Matches(query) {
			out = append(out, c)
		}
	}
	return out
}

func (n *NewsStore) FetchSentimentTrends(ctx context.Context) bool {
	return n.fetchAggregate(ctx, n.api.SentimentTrends, &n.sentimentTrends, "Failed to fetch sentiment trends")
}

func (n *NewsStore) FetchTopEntities(ctx context.Context) bool {
	return n.fetchAggregate(ctx, n.api.TopEntities, &n.topEntities, "Failed to fetch top entities")
}

func (n *NewsStore) FetchCategoryDistribution(ctx context.Context) bool {
	return n.fetchAggregate(ctx, n.api.CategoryDistribution, &n.categoryDistribution, "Failed to fetch category distribution")
}

func (n *NewsStore) FetchSourceAnalysis(ctx context.Context) bool {
	return n.fetchAggregate(ctx, n.api.SourceAnalysis, &n.sourceAnalysis, "Failed to fetch source analysis")
}

func (n *NewsStore) fetchAggregate(ctx context.Context, call func(context.Context, client.Params) (json.RawMessage, error), slot *json.RawMessage, fallback string) bool {
	n.setFlag(&n.loadingAnalysis, true)
	defer n.setFlag(&n.loadingAnalysis, false)

	raw, err := call(ctx, n.Filters().params())
	if err != nil {
		n.notify.Error(detailOr(err, fallback))
		return false
	}
	n.mu.Lock()
	*slot = raw
	n.mu.Unlock()
	return true
}

// Reset discards all fetched state and filters. Intended for test isolation.
func (n *NewsStore) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.articles = nil
	n.sources = nil
	n.categories = nil
	n.sentimentTrends = nil
	n.topEntities = nil
	n.categoryDistribution = nil
	n.sourceAnalysis = nil
	n.filters = DefaultFilters()
	n.loadingNews = false
	n.loadingSources = false
	n.loadingCategories = false
	n.loadingAnalysis = false
}
