package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"goreddit/config"
	"goreddit/controllers"
	"goreddit/middleware"
	"goreddit/services"
	"goreddit/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, notifier services.Notifier) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(utils.GinLogger())
	r.Use(utils.GinRecovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authService := services.NewAuthService(db, notifier, cfg.BaseURL)
	subredditService := services.NewSubredditService(db)
	postService := services.NewPostService(db)
	commentService := services.NewCommentService(db, notifier)
	voteService := services.NewVoteService(db)

	authController := controllers.NewAuthController(authService)
	subredditController := controllers.NewSubredditController(subredditService)
	postController := controllers.NewPostController(postService, voteService)
	commentController := controllers.NewCommentController(commentService)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.GET("/verify/:token", authController.Verify)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	api.GET("/subreddits", subredditController.List)
	api.GET("/subreddits/:id", subredditController.Get)
	api.GET("/subreddits/:id/posts", postController.ListBySubreddit)

	api.GET("/posts", postController.List)
	api.GET("/posts/:id", postController.Get)
	api.GET("/posts/:id/comments", commentController.ListByPost)

	api.GET("/users/:username/posts", postController.ListByUser)
	api.GET("/users/:username/comments", commentController.ListByUser)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/subreddits", subredditController.Create)
	protected.POST("/posts", postController.Create)
	protected.POST("/posts/:id/vote", postController.Vote)
	protected.POST("/posts/:id/comments", commentController.Create)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
