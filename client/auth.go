package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Auth operations - all methods operate directly on Client

// Login exchanges credentials for a token and the account profile.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}
	body := map[string]string{"username": username, "password": password}
	raw, err := c.do(ctx, http.MethodPost, "/auth/login", body, nil)
	if err != nil {
		return nil, err
	}
	var res AuthResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates an account and logs it in immediately.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if err := ValidateRegistration(req); err != nil {
		return nil, err
	}
	raw, err := c.do(ctx, http.MethodPost, "/auth/register", req, nil)
	if err != nil {
		return nil, err
	}
	var res AuthResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Me fetches the profile of the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.getJSON(ctx, "/auth/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile applies the given changes and returns the updated profile.
func (c *Client) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*User, error) {
	raw, err := c.do(ctx, http.MethodPut, "/auth/profile", upd, nil)
	if err != nil {
		return nil, err
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ChangePassword rotates the account credential. No profile state changes.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	if err := ValidatePassword(next); err != nil {
		return err
	}
	body := map[string]string{
		"current_password": current,
		"new_password":     next,
	}
	_, err := c.do(ctx, http.MethodPut, "/auth/change-password", body, nil)
	return err
}

// ViewNews records an article view in the user's history.
func (c *Client) ViewNews(ctx context.Context, userID string, ref ArticleRef) (*ActionResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("userId is required")
	}
	raw, err := c.do(ctx, http.MethodPost, "/auth/view-news/"+userID, ref, nil)
	if err != nil {
		return nil, err
	}
	var res ActionResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SavePost persists an article to the user's saved list.
func (c *Client) SavePost(ctx context.Context, userID string, ref ArticleRef) (*ActionResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("userId is required")
	}
	raw, err := c.do(ctx, http.MethodPost, "/auth/save-post/"+userID, ref, nil)
	if err != nil {
		return nil, err
	}
	var res ActionResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// WorldNews fetches the personalized feed for the authenticated user.
func (c *Client) WorldNews(ctx context.Context) (*WorldNewsResponse, error) {
	var res WorldNewsResponse
	if err := c.getJSON(ctx, "/auth/world-news", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
