package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"RocketClient/internal/backend"
)

// Friends lists the users the caller follows
func (c *Client) Friends(ctx context.Context) ([]backend.UserWithImage, error) {
	var friends []backend.UserWithImage
	if err := c.doJSON(ctx, http.MethodGet, c.protectedURL("/friends"), nil, &friends); err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	return friends, nil
}

// AddFriend follows the user with the given name
func (c *Client) AddFriend(ctx context.Context, name string) error {
	if err := c.doJSON(ctx, http.MethodPost, c.protectedURL("/friends/add"), backend.FriendRequest{FriendName: name}, nil); err != nil {
		return fmt.Errorf("failed to add friend %s: %w", name, err)
	}
	return nil
}

// DeleteFriend unfollows the user with the given name
func (c *Client) DeleteFriend(ctx context.Context, name string) error {
	if err := c.doJSON(ctx, http.MethodDelete, c.protectedURL("/friends/"+url.PathEscape(name)), nil, nil); err != nil {
		return fmt.Errorf("failed to delete friend %s: %w", name, err)
	}
	return nil
}

// Followers lists the users following userID
func (c *Client) Followers(ctx context.Context, userID string) ([]backend.UserWithImage, error) {
	var users []backend.UserWithImage
	if err := c.doJSON(ctx, http.MethodGet, c.protectedURL("/followers/"+url.PathEscape(userID)), nil, &users); err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return users, nil
}

// Following lists the users userID follows
func (c *Client) Following(ctx context.Context, userID string) ([]backend.UserWithImage, error) {
	var users []backend.UserWithImage
	if err := c.doJSON(ctx, http.MethodGet, c.protectedURL("/following/"+url.PathEscape(userID)), nil, &users); err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	return users, nil
}

// UserRanking returns the global top list
func (c *Client) UserRanking(ctx context.Context) ([]backend.UserWithImage, error) {
	var users []backend.UserWithImage
	if err := c.doJSON(ctx, http.MethodGet, c.protectedURL("/ranking/users"), nil, &users); err != nil {
		return nil, fmt.Errorf("failed to get ranking: %w", err)
	}
	return users, nil
}

// FriendRanking returns the caller's friends ordered by rocket points
func (c *Client) FriendRanking(ctx context.Context) ([]backend.UserWithImage, error) {
	var users []backend.UserWithImage
	if err := c.doJSON(ctx, http.MethodGet, c.protectedURL("/ranking/friends"), nil, &users); err != nil {
		return nil, fmt.Errorf("failed to get friend ranking: %w", err)
	}
	return users, nil
}

// ChatHistory returns all stored chat messages, oldest first. The backend
// renames the caller's own messages to "You".
func (c *Client) ChatHistory(ctx context.Context) ([]backend.ChatMessage, error) {
	var history backend.ChatHistory
	if err := c.doJSON(ctx, http.MethodGet, c.protectedURL("/chat/history"), nil, &history); err != nil {
		return nil, fmt.Errorf("failed to get chat history: %w", err)
	}
	return history.Messages, nil
}
