package models

import "time"

// User represents a user in the system
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsTest    bool   `json:"is_test"`
}

// Like represents one user liking another at a specific point in time
type Like struct {
	LikedUserID   string    `json:"liked_user_id"`
	LikedByUserID string    `json:"liked_by_user_id"`
	LikedAt       time.Time `json:"liked_at"`
}
