package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"goreddit/config"
	"goreddit/models"
	"goreddit/services"
	"goreddit/utils"
)

// AuthController handles registration, account verification, login and the
// GitHub/Google OAuth flows.
type AuthController struct {
	auth *services.AuthService
}

// NewAuthController creates an AuthController.
func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register handles local account registration. The account stays disabled
// until the emailed activation link is followed.
func (a *AuthController) Register(ctx *gin.Context) {
	var req services.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	user, err := a.auth.Register(ctx.Request.Context(), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{
		"message": "registration successful, please check your email to activate the account",
		"user":    publicUser(user),
	})
}

// Verify handles GET /auth/verify/:token, consuming an activation token.
func (a *AuthController) Verify(ctx *gin.Context) {
	token := strings.TrimSpace(ctx.Param("token"))
	if token == "" {
		utils.Error(ctx, http.StatusBadRequest, 40002, "missing verification token")
		return
	}

	if err := a.auth.VerifyAccount(ctx.Request.Context(), token); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "account activated"})
}

// Login exchanges credentials for a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req services.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	token, user, err := a.auth.Login(ctx.Request.Context(), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  publicUser(user),
	})
}

// Logout invalidates the presented token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}

	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(72 * time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's own record.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	user, err := a.auth.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"user": publicUser(user)})
}

// OAuthRedirect generates a provider-specific authorization URL. The state
// value is parked in Redis and checked on callback.
func (a *AuthController) OAuthRedirect(ctx *gin.Context) {
	conf, err := oauthConfig(ctx.Param("provider"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "unsupported oauth provider")
		return
	}

	state := uuid.NewString()
	utils.CacheSetBytes("oauth:state:"+state, []byte("1"), 10*time.Minute)

	utils.Success(ctx, gin.H{"auth_url": conf.AuthCodeURL(state)})
}

// OAuthCallback exchanges the authorization code, resolves the provider
// profile to a local account and issues a JWT.
func (a *AuthController) OAuthCallback(ctx *gin.Context) {
	provider := ctx.Param("provider")
	conf, err := oauthConfig(provider)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "unsupported oauth provider")
		return
	}

	state := ctx.Query("state")
	if _, ok := utils.CacheGetBytes("oauth:state:" + state); !ok {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid or expired oauth state")
		return
	}
	utils.CacheDelete("oauth:state:" + state)

	code := ctx.Query("code")
	if code == "" {
		utils.Error(ctx, http.StatusBadRequest, 40032, "missing authorization code")
		return
	}

	token, err := conf.Exchange(ctx.Request.Context(), code)
	if err != nil {
		utils.Error(ctx, http.StatusBadGateway, 50210, "oauth code exchange failed")
		return
	}

	profile, err := fetchOAuthUser(ctx.Request.Context(), provider, token)
	if err != nil {
		utils.Error(ctx, http.StatusBadGateway, 50211, "failed to fetch oauth profile")
		return
	}

	user, err := a.auth.FindOrCreateOAuthUser(ctx.Request.Context(), provider, profile.ID, profile.Username, profile.Email)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	jwtToken, err := utils.GenerateToken(user.ID, user.Username, 72*time.Hour)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"token": jwtToken,
		"user":  publicUser(user),
	})
}

type oauthUser struct {
	ID       string
	Username string
	Email    string
}

func oauthConfig(provider string) (*oauth2.Config, error) {
	cfg := config.Get()
	redirect := fmt.Sprintf("%s/api/v1/auth/oauth/%s/callback", strings.TrimRight(cfg.BaseURL, "/"), provider)

	switch provider {
	case "github":
		if cfg.GitHubClientID == "" {
			return nil, fmt.Errorf("github oauth not configured")
		}
		return &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			Endpoint:     github.Endpoint,
			RedirectURL:  redirect,
			Scopes:       []string{"read:user", "user:email"},
		}, nil
	case "google":
		if cfg.GoogleClientID == "" {
			return nil, fmt.Errorf("google oauth not configured")
		}
		return &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  redirect,
			Scopes:       []string{"openid", "email", "profile"},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", provider)
	}
}

func fetchOAuthUser(ctx context.Context, provider string, token *oauth2.Token) (*oauthUser, error) {
	switch provider {
	case "github":
		return fetchGitHubUser(ctx, token)
	case "google":
		return fetchGoogleUser(ctx, token)
	default:
		return nil, fmt.Errorf("unsupported provider %q", provider)
	}
}

func fetchGitHubUser(ctx context.Context, token *oauth2.Token) (*oauthUser, error) {
	body, err := oauthGet(ctx, token, "https://api.github.com/user")
	if err != nil {
		return nil, err
	}

	var payload struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	return &oauthUser{
		ID:       fmt.Sprintf("%d", payload.ID),
		Username: payload.Login,
		Email:    payload.Email,
	}, nil
}

func fetchGoogleUser(ctx context.Context, token *oauth2.Token) (*oauthUser, error) {
	body, err := oauthGet(ctx, token, "https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, err
	}

	var payload struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	return &oauthUser{
		ID:       payload.ID,
		Username: payload.Name,
		Email:    payload.Email,
	}, nil
}

func oauthGet(ctx context.Context, token *oauth2.Token, url string) ([]byte, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	client.Timeout = 10 * time.Second

	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider answered %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}

// publicUser strips credential fields from a user for API responses.
func publicUser(user *models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"provider":   user.Provider,
		"enabled":    user.Enabled,
		"created_at": user.CreatedAt,
	}
}
