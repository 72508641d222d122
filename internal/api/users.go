package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"RocketClient/internal/backend"
)

// CurrentUser returns the logged-in user
func (c *Client) CurrentUser(ctx context.Context) (*backend.User, error) {
	var user backend.User
	if err := c.doJSON(ctx, http.MethodGet, c.protectedURL("/user"), nil, &user); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// DeleteUser removes the logged-in account
func (c *Client) DeleteUser(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodDelete, c.protectedURL("/user"), nil, nil); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	c.setToken("")
	return nil
}

// UserByName looks up a profile by username
func (c *Client) UserByName(ctx context.Context, name string) (*backend.UserWithImage, error) {
	var user backend.UserWithImage
	if err := c.doJSON(ctx, http.MethodGet, c.protectedURL("/user/"+url.PathEscape(name)), nil, &user); err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", name, err)
	}
	return &user, nil
}

// UserStatistics returns the step history of a user
func (c *Client) UserStatistics(ctx context.Context, userID string) ([]backend.StepStatistic, error) {
	var stats []backend.StepStatistic
	if err := c.doJSON(ctx, http.MethodPost, c.protectedURL("/user/statistics"), backend.UserIDRequest{ID: userID}, &stats); err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}
	return stats, nil
}

// UserImage returns a user's avatar. An empty userID means the caller.
func (c *Client) UserImage(ctx context.Context, userID string) (*backend.UserImage, error) {
	var body interface{}
	if userID != "" {
		body = backend.UserImageRequest{UserID: userID}
	}
	var img backend.UserImage
	if err := c.doJSON(ctx, http.MethodPost, c.protectedURL("/user/image"), body, &img); err != nil {
		return nil, fmt.Errorf("failed to get user image: %w", err)
	}
	return &img, nil
}

// RocketPoints returns the caller's rocket points
func (c *Client) RocketPoints(ctx context.Context) (int, error) {
	var resp backend.RocketPoints
	if err := c.doJSON(ctx, http.MethodGet, c.protectedURL("/user/rocketpoints"), nil, &resp); err != nil {
		return 0, fmt.Errorf("failed to get rocket points: %w", err)
	}
	return resp.RocketPoints, nil
}

// AllUsers lists every registered user
func (c *Client) AllUsers(ctx context.Context) ([]backend.UserWithImage, error) {
	var users []backend.UserWithImage
	if err := c.doJSON(ctx, http.MethodGet, c.protectedURL("/users"), nil, &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateSteps reports today's step count
func (c *Client) UpdateSteps(ctx context.Context, steps int) error {
	if err := c.doJSON(ctx, http.MethodPost, c.protectedURL("/updateSteps"), backend.UpdateStepsRequest{Steps: steps}, nil); err != nil {
		return fmt.Errorf("failed to update steps: %w", err)
	}
	return nil
}

// Settings returns the caller's preferences
func (c *Client) Settings(ctx context.Context) (*backend.Settings, error) {
	var settings backend.Settings
	if err := c.doJSON(ctx, http.MethodGet, c.protectedURL("/settings"), nil, &settings); err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// UpdateStepGoal sets the daily step goal
func (c *Client) UpdateStepGoal(ctx context.Context, goal int) error {
	if err := c.doJSON(ctx, http.MethodPost, c.protectedURL("/settings/step-goal"), backend.StepGoalRequest{StepGoal: goal}, nil); err != nil {
		return fmt.Errorf("failed to update step goal: %w", err)
	}
	return nil
}

// UpdateImage uploads a new profile image as multipart field "image"
func (c *Client) UpdateImage(ctx context.Context, filename string, r io.Reader) error {
	if err := c.doMultipart(ctx, c.protectedURL("/settings/image"), "image", filename, r, nil); err != nil {
		return fmt.Errorf("failed to update image: %w", err)
	}
	return nil
}

// DeleteImage removes the profile image
func (c *Client) DeleteImage(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodDelete, c.protectedURL("/settings/image"), nil, nil); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// Activities returns the feed of the user and their friends
func (c *Client) Activities(ctx context.Context) (*backend.ActivityFeed, error) {
	var feed backend.ActivityFeed
	// the backend route is spelled "activites"
	if err := c.doJSON(ctx, http.MethodGet, c.protectedURL("/activites"), nil, &feed); err != nil {
		return nil, fmt.Errorf("failed to get activities: %w", err)
	}
	return &feed, nil
}
