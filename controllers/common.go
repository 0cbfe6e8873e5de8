package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"goreddit/middleware"
	"goreddit/services"
	"goreddit/utils"
)

// getUserID reads the authenticated user id placed on the context by the auth
// middleware.
func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

// respondServiceError translates service sentinel errors into the uniform
// response envelope. Unknown errors become a logged 500.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPostNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
	case errors.Is(err, services.ErrSubredditNotFound):
		utils.Error(ctx, http.StatusNotFound, 40402, "subreddit not found")
	case errors.Is(err, services.ErrUserNotFound):
		utils.Error(ctx, http.StatusNotFound, 40403, "user not found")
	case errors.Is(err, services.ErrTokenNotFound):
		utils.Error(ctx, http.StatusNotFound, 40404, "verification token not found")
	case errors.Is(err, services.ErrNoPosts):
		utils.Error(ctx, http.StatusNotFound, 40430, "no posts found")
	case errors.Is(err, services.ErrNoComments):
		utils.Error(ctx, http.StatusNotFound, 40431, "no comments found")
	case errors.Is(err, services.ErrSubredditExists):
		utils.Error(ctx, http.StatusConflict, 40901, "subreddit name already taken")
	case errors.Is(err, services.ErrUsernameTaken):
		utils.Error(ctx, http.StatusConflict, 40902, "username already exists")
	case errors.Is(err, services.ErrAlreadyVoted):
		utils.Error(ctx, http.StatusConflict, 40903, "already voted in this direction")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
	case errors.Is(err, services.ErrAccountDisabled):
		utils.Error(ctx, http.StatusForbidden, 40310, "account is not verified")
	case errors.Is(err, services.ErrTokenExpired):
		utils.Error(ctx, http.StatusGone, 41001, "verification token expired")
	case errors.Is(err, services.ErrInvalidVote):
		utils.Error(ctx, http.StatusBadRequest, 40010, "vote direction must be 1 or -1")
	default:
		utils.Sugar.Errorf("unhandled service error path=%s err=%v", ctx.FullPath(), err)
		utils.Error(ctx, http.StatusInternalServerError, 50000, "internal server error")
	}
}

// cachedResponse wraps a payload in the standard envelope for caching whole
// response bodies.
type cachedResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func wrapForCache(payload interface{}) cachedResponse {
	return cachedResponse{Code: 0, Message: "success", Data: payload}
}
