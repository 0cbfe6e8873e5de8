package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"goreddit/services"
	"goreddit/utils"
)

// PostController exposes post submission, listing and voting endpoints.
type PostController struct {
	posts *services.PostService
	votes *services.VoteService
}

// NewPostController creates a PostController.
func NewPostController(posts *services.PostService, votes *services.VoteService) *PostController {
	return &PostController{posts: posts, votes: votes}
}

// Create handles POST /posts for authenticated users.
func (c *PostController) Create(ctx *gin.Context) {
	var req services.PostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	post, err := c.posts.Create(ctx.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:posts:")
	utils.InvalidateByPrefix("cache:subreddits:")
	utils.Success(ctx, gin.H{"post": post})
}

// Get handles GET /posts/:id.
func (c *PostController) Get(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid post id")
		return
	}

	post, lookupErr := c.posts.Get(ctx.Request.Context(), uint(id))
	if lookupErr != nil {
		respondServiceError(ctx, lookupErr)
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// List handles GET /posts, all posts newest first.
func (c *PostController) List(ctx *gin.Context) {
	const cacheKey = "cache:posts:list"
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	posts, err := c.posts.ListAll(ctx.Request.Context())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	payload := gin.H{"items": posts}
	utils.CacheSetJSON(cacheKey, wrapForCache(payload), time.Minute)
	utils.Success(ctx, payload)
}

// ListBySubreddit handles GET /subreddits/:id/posts. A missing subreddit and
// a subreddit without posts answer with different error codes.
func (c *PostController) ListBySubreddit(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid subreddit id")
		return
	}

	posts, lookupErr := c.posts.ListBySubreddit(ctx.Request.Context(), uint(id))
	if lookupErr != nil {
		respondServiceError(ctx, lookupErr)
		return
	}
	utils.Success(ctx, gin.H{"items": posts})
}

// ListByUser handles GET /users/:username/posts.
func (c *PostController) ListByUser(ctx *gin.Context) {
	username := ctx.Param("username")
	if username == "" {
		utils.Error(ctx, http.StatusBadRequest, 40024, "missing username")
		return
	}

	posts, err := c.posts.ListByUser(ctx.Request.Context(), username)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": posts})
}

// Vote handles POST /posts/:id/vote for authenticated users.
func (c *PostController) Vote(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid post id")
		return
	}

	var req struct {
		Direction int `json:"direction" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40025, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	voteReq := services.VoteRequest{PostID: uint(id), Direction: req.Direction}
	if err := c.votes.Vote(ctx.Request.Context(), userID, voteReq); err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:posts:")
	utils.Success(ctx, gin.H{"message": "vote recorded"})
}
