package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestClient_LatestNewsParams(t *testing.T) {
	var query url.Values
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/news/latest" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		query = r.URL.Query()
		_, _ = w.Write([]byte(`[
			{"title":"a","description":"d","url":"https://example.com/a","publishedAt":"2025-01-01T00:00:00Z","source":{"name":"Example"}}
		]`))
	}))
	defer hs.Close()

	c := New(hs.URL)
	articles, err := c.LatestNews(context.Background(), Params{Limit: 5, Category: "tech", Source: "bbc"})
	if err != nil {
		t.Fatalf("LatestNews returned error: %v", err)
	}
	if len(articles) != 1 || articles[0].Key() != "https://example.com/a" {
		t.Fatalf("unexpected articles %+v", articles)
	}
	if query.Get("limit") != "5" || query.Get("category") != "tech" || query.Get("source") != "bbc" {
		t.Fatalf("unexpected query %v", query)
	}
	if query.Has("days") {
		t.Fatalf("zero days must be omitted, got %v", query)
	}
}

func TestClient_SearchNewsQuery(t *testing.T) {
	var query url.Values
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/news/search" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		query = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer hs.Close()

	c := New(hs.URL)
	if _, err := c.SearchNews(context.Background(), "climate change", Params{}); err != nil {
		t.Fatalf("SearchNews returned error: %v", err)
	}
	if query.Get("q") != "climate change" {
		t.Fatalf("unexpected query %v", query)
	}
}

func TestClient_SearchNewsRequiresQuery(t *testing.T) {
	c := New("http://localhost:0")
	if _, err := c.SearchNews(context.Background(), "", Params{}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestClient_CategoriesUnionDecode(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/news/categories" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		// Mixed shapes: bare names and full objects, as the backend emits.
		_, _ = w.Write([]byte(`["Tech", {"id":"1","name":"Sports","description":""}]`))
	}))
	defer hs.Close()

	c := New(hs.URL)
	categories, err := c.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories returned error: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("unexpected categories %+v", categories)
	}
	if categories[0].ID != "Tech" || categories[0].Name != "Tech" || categories[0].Description != "" {
		t.Fatalf("bare name not normalized: %+v", categories[0])
	}
	if categories[1].ID != "1" || categories[1].Name != "Sports" {
		t.Fatalf("object form mangled: %+v", categories[1])
	}
}

func TestClient_Sources(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/news/sources" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`["bbc-news","reuters"]`))
	}))
	defer hs.Close()

	c := New(hs.URL)
	sources, err := c.Sources(context.Background())
	if err != nil {
		t.Fatalf("Sources returned error: %v", err)
	}
	if len(sources) != 2 || sources[1] != "reuters" {
		t.Fatalf("unexpected sources %v", sources)
	}
}

func TestClient_NewsByCategoryEscapesID(t *testing.T) {
	var path string
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer hs.Close()

	c := New(hs.URL)
	if _, err := c.NewsByCategory(context.Background(), "science & space", Params{}); err != nil {
		t.Fatalf("NewsByCategory returned error: %v", err)
	}
	if path != "/news/category/science%20&%20space" {
		t.Fatalf("unexpected path %q", path)
	}
}
