package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dustin/go-humanize"
	"gorm.io/gorm"

	"goreddit/models"
	"goreddit/utils"
)

// PostService manages post submission and the read-facing post mappings.
type PostService struct {
	db *gorm.DB
}

// NewPostService creates a PostService backed by the given database.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// PostRequest is the payload for submitting a post into a community.
type PostRequest struct {
	SubredditName string `json:"subreddit" binding:"required"`
	Title         string `json:"title" binding:"required,min=1,max=255"`
	URL           string `json:"url"`
	Description   string `json:"description"`
}

// PostResponse is the read-facing shape of a post. Author is always the
// stored owning user of the post, regardless of who is asking.
type PostResponse struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	Description   string `json:"description"`
	Author        string `json:"author"`
	SubredditName string `json:"subreddit"`
	VoteCount     int    `json:"vote_count"`
	CommentCount  int64  `json:"comment_count"`
	Age           string `json:"age"`
}

// Create submits a post into the named community on behalf of userID.
// The subreddit is resolved by name and the author attached inside a single
// transaction; vote count starts at zero.
func (s *PostService) Create(ctx context.Context, userID uint, req PostRequest) (*PostResponse, error) {
	var resp *PostResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub models.Subreddit
		if err := tx.Where("name = ?", strings.TrimSpace(req.SubredditName)).First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubredditNotFound
			}
			return err
		}

		var author models.User
		if err := tx.First(&author, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		post := models.Post{
			SubredditID: sub.ID,
			UserID:      author.ID,
			Title:       utils.Sanitize(strings.TrimSpace(req.Title)),
			URL:         strings.TrimSpace(req.URL),
			Description: utils.Sanitize(req.Description),
			VoteCount:   0,
		}
		if err := tx.Create(&post).Error; err != nil {
			return err
		}

		post.User = author
		post.Subreddit = sub
		r, err := s.mapToResponse(tx, post)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Get returns a single post by id in its display form.
func (s *PostService) Get(ctx context.Context, id uint) (*PostResponse, error) {
	db := s.db.WithContext(ctx)
	var post models.Post
	if err := db.Preload("User").Preload("Subreddit").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return s.mapToResponse(db, post)
}

// ListAll returns every post in its display form, newest first.
func (s *PostService) ListAll(ctx context.Context) ([]PostResponse, error) {
	db := s.db.WithContext(ctx)
	var posts []models.Post
	if err := db.Preload("User").Preload("Subreddit").Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return s.mapAll(db, posts)
}

// ListBySubreddit returns the posts of one community. A missing community is
// ErrSubredditNotFound; a community with zero posts is ErrNoPosts. The two
// conditions stay distinct for the API layer.
func (s *PostService) ListBySubreddit(ctx context.Context, subredditID uint) ([]PostResponse, error) {
	db := s.db.WithContext(ctx)

	var sub models.Subreddit
	if err := db.First(&sub, subredditID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubredditNotFound
		}
		return nil, err
	}

	var posts []models.Post
	if err := db.Preload("User").Preload("Subreddit").
		Where("subreddit_id = ?", sub.ID).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrNoPosts
	}
	return s.mapAll(db, posts)
}

// ListByUser returns the posts authored by the named user, with the same
// missing-parent vs zero-children distinction as ListBySubreddit.
func (s *PostService) ListByUser(ctx context.Context, username string) ([]PostResponse, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var posts []models.Post
	if err := db.Preload("User").Preload("Subreddit").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrNoPosts
	}
	return s.mapAll(db, posts)
}

// mapToResponse computes the derived display fields for one post: the live
// comment count and the relative age. The author username comes from the
// post's stored relation.
func (s *PostService) mapToResponse(db *gorm.DB, post models.Post) (*PostResponse, error) {
	var commentCount int64
	if err := db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount).Error; err != nil {
		return nil, err
	}
	return &PostResponse{
		ID:            post.ID,
		Title:         post.Title,
		URL:           post.URL,
		Description:   post.Description,
		Author:        post.User.Username,
		SubredditName: post.Subreddit.Name,
		VoteCount:     post.VoteCount,
		CommentCount:  commentCount,
		Age:           humanize.Time(post.CreatedAt),
	}, nil
}

func (s *PostService) mapAll(db *gorm.DB, posts []models.Post) ([]PostResponse, error) {
	out := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		r, err := s.mapToResponse(db, post)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}
