package api

import (
	"context"
	"fmt"
	"net/http"

	"RocketClient/internal/backend"

	"github.com/google/uuid"
)

// DailyChallenges returns today's challenges for the caller
func (c *Client) DailyChallenges(ctx context.Context) ([]backend.Challenge, error) {
	var challenges []backend.Challenge
	if err := c.doJSON(ctx, http.MethodGet, c.protectedURL("/challenges/new"), nil, &challenges); err != nil {
		return nil, fmt.Errorf("failed to get challenges: %w", err)
	}
	return challenges, nil
}

// CompleteChallenge marks a challenge done and awards its points
func (c *Client) CompleteChallenge(ctx context.Context, id uuid.UUID, points int) error {
	req := backend.CompleteChallengeRequest{ChallengeID: id, RocketPoints: points}
	if err := c.doJSON(ctx, http.MethodPost, c.protectedURL("/challenges/complete"), req, nil); err != nil {
		return fmt.Errorf("failed to complete challenge: %w", err)
	}
	return nil
}

// ChallengeProgress returns how many of today's challenges are done
func (c *Client) ChallengeProgress(ctx context.Context) (*backend.ChallengeProgress, error) {
	var progress backend.ChallengeProgress
	if err := c.doJSON(ctx, http.MethodGet, c.protectedURL("/challenges/progress"), nil, &progress); err != nil {
		return nil, fmt.Errorf("failed to get challenge progress: %w", err)
	}
	return &progress, nil
}

// InviteToChallenge shares a challenge with a friend
func (c *Client) InviteToChallenge(ctx context.Context, challengeID, friendID string) error {
	req := backend.ChallengeInvite{ChallengeID: challengeID, FriendID: friendID}
	if err := c.doJSON(ctx, http.MethodPost, c.protectedURL("/challenges/invite"), req, nil); err != nil {
		return fmt.Errorf("failed to invite friend: %w", err)
	}
	return nil
}
