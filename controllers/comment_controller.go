package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"goreddit/services"
	"goreddit/utils"
)

// CommentController exposes comment endpoints.
type CommentController struct {
	comments *services.CommentService
}

// NewCommentController creates a CommentController.
func NewCommentController(comments *services.CommentService) *CommentController {
	return &CommentController{comments: comments}
}

// Create handles POST /posts/:id/comments for authenticated users.
func (c *CommentController) Create(ctx *gin.Context) {
	postID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid post id")
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40026, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	commentReq := services.CommentRequest{PostID: uint(postID), Text: req.Text}
	comment, createErr := c.comments.Create(ctx.Request.Context(), userID, commentReq)
	if createErr != nil {
		respondServiceError(ctx, createErr)
		return
	}

	utils.InvalidateByPrefix("cache:posts:")
	utils.Success(ctx, gin.H{"comment": comment})
}

// ListByPost handles GET /posts/:id/comments.
func (c *CommentController) ListByPost(ctx *gin.Context) {
	postID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid post id")
		return
	}

	comments, lookupErr := c.comments.ListByPost(ctx.Request.Context(), uint(postID))
	if lookupErr != nil {
		respondServiceError(ctx, lookupErr)
		return
	}
	utils.Success(ctx, gin.H{"items": comments})
}

// ListByUser handles GET /users/:username/comments.
func (c *CommentController) ListByUser(ctx *gin.Context) {
	username := ctx.Param("username")
	if username == "" {
		utils.Error(ctx, http.StatusBadRequest, 40024, "missing username")
		return
	}

	comments, err := c.comments.ListByUser(ctx.Request.Context(), username)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": comments})
}
