package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"goreddit/models"
)

// VoteService manages post voting. Each user holds at most one vote per post;
// the post's vote counter is adjusted in the same transaction as the vote row
// using a relative update, so concurrent voters serialize on the row instead
// of overwriting each other's counts.
type VoteService struct {
	db *gorm.DB
}

// NewVoteService creates a VoteService backed by the given database.
func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{db: db}
}

// VoteRequest is the payload for voting on a post.
type VoteRequest struct {
	PostID    uint `json:"post_id" binding:"required"`
	Direction int  `json:"direction" binding:"required"`
}

// Vote records userID's vote on a post. A first vote moves the counter by the
// direction; switching an existing vote moves it by twice the direction;
// repeating the same direction is ErrAlreadyVoted.
func (s *VoteService) Vote(ctx context.Context, userID uint, req VoteRequest) error {
	if req.Direction != models.Upvote && req.Direction != models.Downvote {
		return ErrInvalidVote
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, req.PostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		delta := req.Direction
		var existing models.Vote
		err := tx.Where("post_id = ? AND user_id = ?", post.ID, userID).First(&existing).Error
		switch {
		case err == nil:
			if existing.Direction == req.Direction {
				return ErrAlreadyVoted
			}
			existing.Direction = req.Direction
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			delta = 2 * req.Direction
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{PostID: post.ID, UserID: userID, Direction: req.Direction}
			if err := tx.Create(&vote).Error; err != nil {
				if isDuplicateKeyError(err) {
					return ErrAlreadyVoted
				}
				return err
			}
		default:
			return err
		}

		return tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			UpdateColumn("vote_count", gorm.Expr("vote_count + ?", delta)).Error
	})
}
