package client

import (
	"context"
	"fmt"
	"net/url"
)

// News operations - read-only endpoints, no authentication required

// LatestNews lists the most recent articles, optionally filtered.
func (c *Client) LatestNews(ctx context.Context, p Params) ([]Article, error) {
	var articles []Article
	if err := c.getJSON(ctx, "/news/latest", p.Values(), &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// SearchNews performs a keyword search over articles.
func (c *Client) SearchNews(ctx context.Context, query string, p Params) ([]Article, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	v := p.Values()
	v.Set("q", query)
	var articles []Article
	if err := c.getJSON(ctx, "/news/search", v, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// Sources lists the available news sources.
func (c *Client) Sources(ctx context.Context) ([]string, error) {
	var sources []string
	if err := c.getJSON(ctx, "/news/sources", nil, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// Categories lists the news categories. The backend emits either bare names
// or full objects; Category's decoder resolves the union, so callers always
// see the object form.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.getJSON(ctx, "/news/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// NewsByCategory lists articles for one category.
func (c *Client) NewsByCategory(ctx context.Context, categoryID string, p Params) ([]Article, error) {
	if categoryID == "" {
		return nil, fmt.Errorf("categoryId is required")
	}
	var articles []Article
	if err := c.getJSON(ctx, "/news/category/"+url.PathEscape(categoryID), p.Values(), &articles); err != nil {
		return nil, err
	}
	return articles, nil
}
