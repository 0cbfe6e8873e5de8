package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"goreddit/models"
	"goreddit/utils"
)

// SubredditService manages community creation and lookup.
type SubredditService struct {
	db *gorm.DB
}

// NewSubredditService creates a SubredditService backed by the given database.
func NewSubredditService(db *gorm.DB) *SubredditService {
	return &SubredditService{db: db}
}

// SubredditRequest is the payload for creating a community.
type SubredditRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=64"`
	Description string `json:"description"`
}

// SubredditResponse is the read-facing shape of a community.
type SubredditResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PostCount   int64  `json:"post_count"`
}

// Create persists a new community owned by the given user. Names are unique;
// a duplicate fails with ErrSubredditExists. The unique index on
// subreddits.name backstops the pre-check under concurrent creation.
func (s *SubredditService) Create(ctx context.Context, userID uint, req SubredditRequest) (*SubredditResponse, error) {
	name := strings.TrimSpace(req.Name)

	var existing models.Subreddit
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&existing).Error
	if err == nil {
		return nil, ErrSubredditExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sub := models.Subreddit{
		Name:        name,
		Description: utils.Sanitize(strings.TrimSpace(req.Description)),
		CreatedByID: userID,
	}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrSubredditExists
		}
		return nil, err
	}

	return &SubredditResponse{
		ID:          sub.ID,
		Name:        sub.Name,
		Description: sub.Description,
		PostCount:   0,
	}, nil
}

// List returns every community with its current post count.
func (s *SubredditService) List(ctx context.Context) ([]SubredditResponse, error) {
	var subs []models.Subreddit
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&subs).Error; err != nil {
		return nil, err
	}

	counts, err := s.postCounts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]SubredditResponse, 0, len(subs))
	for _, sub := range subs {
		out = append(out, SubredditResponse{
			ID:          sub.ID,
			Name:        sub.Name,
			Description: sub.Description,
			PostCount:   counts[sub.ID],
		})
	}
	return out, nil
}

// Get returns a single community by id.
func (s *SubredditService) Get(ctx context.Context, id uint) (*SubredditResponse, error) {
	var sub models.Subreddit
	if err := s.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubredditNotFound
		}
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Where("subreddit_id = ?", sub.ID).Count(&count).Error; err != nil {
		return nil, err
	}

	return &SubredditResponse{
		ID:          sub.ID,
		Name:        sub.Name,
		Description: sub.Description,
		PostCount:   count,
	}, nil
}

// postCounts returns post counts grouped by subreddit in one query.
func (s *SubredditService) postCounts(ctx context.Context) (map[uint]int64, error) {
	type row struct {
		SubredditID uint
		N           int64
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("subreddit_id, COUNT(*) AS n").
		Group("subreddit_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.SubredditID] = r.N
	}
	return counts, nil
}

// isDuplicateKeyError matches unique constraint violations across the MySQL
// driver used in production and the sqlite driver used in tests.
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
