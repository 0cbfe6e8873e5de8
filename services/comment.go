package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"gorm.io/gorm"

	"goreddit/models"
	"goreddit/utils"
)

// CommentService manages comments and the notification to post owners.
type CommentService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewCommentService creates a CommentService. The notifier may be nil, in
// which case comment creation skips the owner notification entirely.
func NewCommentService(db *gorm.DB, notifier Notifier) *CommentService {
	return &CommentService{db: db, notifier: notifier}
}

// CommentRequest is the payload for commenting on a post.
type CommentRequest struct {
	PostID uint   `json:"post_id" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

// CommentResponse is the read-facing shape of a comment. Author is the
// comment's actual persisted author.
type CommentResponse struct {
	ID     uint   `json:"id"`
	PostID uint   `json:"post_id"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Age    string `json:"age"`
}

// Create attaches a comment by userID to the requested post and notifies the
// post's author. The notification is handed to the work queue after the
// comment is persisted; a queue failure is logged and never rolls the comment
// back or surfaces to the caller.
func (s *CommentService) Create(ctx context.Context, userID uint, req CommentRequest) (*CommentResponse, error) {
	db := s.db.WithContext(ctx)

	var post models.Post
	if err := db.Preload("User").First(&post, req.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	var author models.User
	if err := db.First(&author, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	comment := models.Comment{
		PostID: post.ID,
		UserID: author.ID,
		Text:   utils.Sanitize(strings.TrimSpace(req.Text)),
	}
	if err := db.Create(&comment).Error; err != nil {
		return nil, err
	}

	s.notifyPostOwner(post, author)

	return &CommentResponse{
		ID:     comment.ID,
		PostID: comment.PostID,
		Text:   comment.Text,
		Author: author.Username,
		Age:    humanize.Time(comment.CreatedAt),
	}, nil
}

// ListByPost returns all comments on a post, oldest first.
func (s *CommentService) ListByPost(ctx context.Context, postID uint) ([]CommentResponse, error) {
	db := s.db.WithContext(ctx)

	var post models.Post
	if err := db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	var comments []models.Comment
	if err := db.Preload("User").Where("post_id = ?", post.ID).Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return mapComments(comments), nil
}

// ListByUser returns all comments authored by the named user, newest first.
// Missing user is ErrUserNotFound; a user with no comments is ErrNoComments.
func (s *CommentService) ListByUser(ctx context.Context, username string) ([]CommentResponse, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var comments []models.Comment
	if err := db.Preload("User").Where("user_id = ?", user.ID).Order("created_at DESC").Find(&comments).Error; err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, ErrNoComments
	}
	return mapComments(comments), nil
}

// notifyPostOwner sends the fixed-template comment notification to the post's
// author. Self-comments and owners without an email address are skipped.
func (s *CommentService) notifyPostOwner(post models.Post, commenter models.User) {
	if s.notifier == nil {
		return
	}
	owner := post.User
	if owner.ID == commenter.ID || owner.Email == "" {
		return
	}
	subject := fmt.Sprintf("%s commented on your post", commenter.Username)
	body := fmt.Sprintf("%s posted a comment on your post %q.", commenter.Username, post.Title)
	if err := s.notifier.Notify(owner.Email, subject, body); err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("comment notification enqueue failed post_id=%d err=%v", post.ID, err)
		}
	}
}

func mapComments(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentResponse{
			ID:     c.ID,
			PostID: c.PostID,
			Text:   c.Text,
			Author: c.User.Username,
			Age:    humanize.Time(c.CreatedAt),
		})
	}
	return out
}
