package client

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ------------------------------
// Core domain types and payloads
// ------------------------------

// User represents an InsightSphere account. The server is the source of
// truth: profile updates replace the whole value.
type User struct {
	ID             string          `json:"id"`
	Username       string          `json:"username"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Country        string          `json:"country"`
	SavedArticles  []Article       `json:"savedArticles,omitempty"`
	RecentActivity []ActivityEntry `json:"recentActivity,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Article is a single news item. Immutable once fetched. When the backend
// assigns no id the URL acts as the de-facto identity (URLs are not
// guaranteed unique, but every list rendering relies on them).
type Article struct {
	ID          string        `json:"id,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	ImageURL    string        `json:"urlToImage,omitempty"`
	PublishedAt time.Time     `json:"publishedAt"`
	Source      ArticleSource `json:"source"`
}

// ArticleSource names the publisher of an article.
type ArticleSource struct {
	Name string `json:"name"`
}

// Key returns the identity used for list rendering: the id when present,
// else the URL.
func (a Article) Key() string {
	if a.ID != "" {
		return a.ID
	}
	return a.URL
}

// ActivityEntry records one article view in a user's history.
type ActivityEntry struct {
	Title    string    `json:"title"`
	URL      string    `json:"url"`
	ViewedAt time.Time `json:"viewedAt"`
}

// Category is the normalized object form of a news category. The backend
// returns either bare names or full objects; the union is resolved once at
// decode and never re-checked downstream.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UnmarshalJSON accepts both shapes the backend emits: a bare string
// ("Tech") or the full object. A bare name becomes {id: name, name: name,
// description: ""}.
func (c *Category) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*c = Category{ID: name, Name: name}
		return nil
	}
	type plain Category
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Category(p)
	return nil
}

// Matches reports whether the category name contains query,
// case-insensitively. An empty query matches everything.
func (c Category) Matches(query string) bool {
	return strings.Contains(strings.ToLower(c.Name), strings.ToLower(query))
}

// ------------------------------
// Auth payloads
// ------------------------------

// AuthResult is returned by the login and register endpoints.
type AuthResult struct {
	User      User   `json:"user"`
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	Password string `json:"password"`
}

// ProfileUpdate carries the changed profile fields; zero-valued fields are
// left untouched server-side.
type ProfileUpdate struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Country  string `json:"country,omitempty"`
	Password string `json:"password,omitempty"`
}

// ArticleRef identifies an article in the interaction endpoints
// (view-news, save-post).
type ArticleRef struct {
	Title       string `json:"title"`
	URL         string `json:"newsUrl"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"urlToImage,omitempty"`
	Source      string `json:"source,omitempty"`
}

// ActionResponse is the envelope of the interaction endpoints.
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	NewsURL string `json:"newsUrl,omitempty"`
}

// WorldNewsResponse is the personalized feed envelope.
type WorldNewsResponse struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message,omitempty"`
	Articles []Article `json:"articles"`
}

// ------------------------------
// Query parameters
// ------------------------------

// Params are the common list-query knobs. Zero values are omitted from the
// query string.
type Params struct {
	Limit    int
	Category string
	Source   string
	Days     int
}

// Values converts Params into a url.Values for the request.
func (p Params) Values() url.Values {
	v := url.Values{}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Category != "" {
		v.Set("category", p.Category)
	}
	if p.Source != "" {
		v.Set("source", p.Source)
	}
	if p.Days > 0 {
		v.Set("days", strconv.Itoa(p.Days))
	}
	return v
}
