package models

import "time"

// Vote directions. One row per (user, post); switching direction updates the
// existing row rather than inserting a second one.
const (
	Upvote   = 1
	Downvote = -1
)

// Vote records a single user's vote on a single post.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"uniqueIndex:idx_votes_post_user;not null" json:"post_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_votes_post_user;not null" json:"user_id"`
	Direction int       `gorm:"not null" json:"direction"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
