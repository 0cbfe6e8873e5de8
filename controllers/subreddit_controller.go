package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"goreddit/services"
	"goreddit/utils"
)

// SubredditController exposes community endpoints.
type SubredditController struct {
	subreddits *services.SubredditService
}

// NewSubredditController creates a SubredditController.
func NewSubredditController(subreddits *services.SubredditService) *SubredditController {
	return &SubredditController{subreddits: subreddits}
}

// Create handles POST /subreddits for authenticated users.
func (c *SubredditController) Create(ctx *gin.Context) {
	var req services.SubredditRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	sub, err := c.subreddits.Create(ctx.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:subreddits:")
	utils.Success(ctx, gin.H{"subreddit": sub})
}

// List handles GET /subreddits, returning every community with its post count.
func (c *SubredditController) List(ctx *gin.Context) {
	const cacheKey = "cache:subreddits:list"
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	subs, err := c.subreddits.List(ctx.Request.Context())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	payload := gin.H{"items": subs}
	utils.CacheSetJSON(cacheKey, wrapForCache(payload), 5*time.Minute)
	utils.Success(ctx, payload)
}

// Get handles GET /subreddits/:id.
func (c *SubredditController) Get(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid subreddit id")
		return
	}

	sub, lookupErr := c.subreddits.Get(ctx.Request.Context(), uint(id))
	if lookupErr != nil {
		respondServiceError(ctx, lookupErr)
		return
	}
	utils.Success(ctx, gin.H{"subreddit": sub})
}
