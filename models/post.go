package models

import "time"

// Post is a piece of user-submitted content attached to one subreddit.
// The comment count and relative age shown to clients are derived at read
// time, never stored.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SubredditID uint      `gorm:"index;not null" json:"subreddit_id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	URL         string    `gorm:"size:512" json:"url"`
	Description string    `gorm:"type:text" json:"description"`
	VoteCount   int       `gorm:"default:0" json:"vote_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Subreddit   Subreddit `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Comments    []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
