package backend

import "github.com/google/uuid"

// User represents a public user profile
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	RocketPoints int       `json:"rocket_points"`
}

// UserWithImage is a profile with its base64 encoded avatar, used by
// friend lists, rankings and profile lookups
type UserWithImage struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	RocketPoints int       `json:"rocket_points"`
	ImageName    string    `json:"image_name"`
	ImageData    string    `json:"image_data"`
	Steps        int       `json:"steps"`
}

// UserImage is returned by POST /user/image. Fields are null without an image.
type UserImage struct {
	Username string  `json:"username"`
	Name     *string `json:"name"`
	MimeType *string `json:"mime_type"`
	Data     *string `json:"data"`
}

// UserImageRequest is the body of POST /user/image
type UserImageRequest struct {
	UserID string `json:"user_id"`
}

// UserIDRequest is the body of POST /user/statistics
type UserIDRequest struct {
	ID string `json:"id"`
}

// StepStatistic is one day of the step history
type StepStatistic struct {
	Day   string `json:"day"`
	Steps int    `json:"steps"`
}

// UpdateStepsRequest is the body of POST /updateSteps
type UpdateStepsRequest struct {
	Steps int `json:"steps"`
}

// Settings holds per-user preferences
type Settings struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	ImageID  uuid.UUID `json:"image_id"`
	StepGoal int       `json:"step_goal"`
}

// StepGoalRequest is the body of POST /settings/step-goal
type StepGoalRequest struct {
	StepGoal int `json:"stepGoal"`
}

// RocketPoints is returned by GET /user/rocketpoints
type RocketPoints struct {
	RocketPoints int `json:"rocket_points"`
}

// FriendRequest is the body of POST /friends/add
type FriendRequest struct {
	FriendName string `json:"friend_name"`
}

// Activity is a single feed entry
type Activity struct {
	Name      string `json:"name"`
	Time      string `json:"time"`
	Message   string `json:"message"`
	ImageName string `json:"image_name"`
	ImageType string `json:"image_type"`
	ImageData string `json:"image_data"`
}

// ActivityFeed is returned by GET /activites
type ActivityFeed struct {
	Username   string     `json:"username"`
	Activities []Activity `json:"activities"`
}
