package client

import (
	"context"
	"encoding/json"
	"net/http"
)

// Analysis operations. The aggregates are server-shaped payloads the view
// layer renders verbatim, so they stay opaque json.RawMessage here: no
// client-side merging, last fetch wins.

// SentimentTrends returns daily sentiment averages for the window.
func (c *Client) SentimentTrends(ctx context.Context, p Params) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/analysis/sentiment-trends", nil, p.Values())
}

// TopEntities returns the most frequently mentioned entities.
func (c *Client) TopEntities(ctx context.Context, p Params) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/analysis/top-entities", nil, p.Values())
}

// CategoryDistribution returns article counts per category.
func (c *Client) CategoryDistribution(ctx context.Context, p Params) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/analysis/category-distribution", nil, p.Values())
}

// SourceAnalysis returns per-source aggregates.
func (c *Client) SourceAnalysis(ctx context.Context, p Params) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/analysis/source-analysis", nil, p.Values())
}
