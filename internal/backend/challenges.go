package backend

import "github.com/google/uuid"

// Challenge is one of the daily challenges
type Challenge struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Points int    `json:"points"`
}

// CompleteChallengeRequest is the body of POST /challenges/complete
type CompleteChallengeRequest struct {
	ChallengeID  uuid.UUID `json:"challenge_id"`
	RocketPoints int       `json:"rocket_points"`
}

// ChallengeInvite is the body of POST /challenges/invite
type ChallengeInvite struct {
	ChallengeID string `json:"challenge_id"`
	FriendID    string `json:"friend_id"`
}

// ChallengeProgress is returned by GET /challenges/progress
type ChallengeProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}
