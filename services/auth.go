package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"goreddit/models"
	"goreddit/utils"
)

// verificationTokenTTL is how long an activation link stays valid.
const verificationTokenTTL = 24 * time.Hour

// AuthService handles registration, account verification and login. The JWT
// issued at login carries the user id and username; everything downstream
// receives the caller's identity explicitly from the boundary layer.
type AuthService struct {
	db       *gorm.DB
	notifier Notifier
	baseURL  string
}

// NewAuthService creates an AuthService. baseURL is used to build activation
// links in verification emails.
func NewAuthService(db *gorm.DB, notifier Notifier, baseURL string) *AuthService {
	return &AuthService{db: db, notifier: notifier, baseURL: strings.TrimRight(baseURL, "/")}
}

// RegisterRequest is the payload for local account registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest is the payload for local login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Register creates a disabled account and emails an activation link through
// the notification queue. The account cannot log in until verified.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if !usernamePattern.MatchString(username) {
		return nil, fmt.Errorf("username may only contain letters, digits, '-' and '_'")
	}

	db := s.db.WithContext(ctx)

	var existing models.User
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		Enabled:      false,
	}

	token := models.VerificationToken{
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(verificationTokenTTL),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if isDuplicateKeyError(err) {
				return ErrUsernameTaken
			}
			return err
		}
		token.UserID = user.ID
		return tx.Create(&token).Error
	})
	if err != nil {
		return nil, err
	}

	s.sendActivationMail(user, token.Token)
	return &user, nil
}

// VerifyAccount consumes an activation token and enables its user. Expired
// tokens are removed and reported as ErrTokenExpired.
func (s *AuthService) VerifyAccount(ctx context.Context, token string) error {
	db := s.db.WithContext(ctx)

	var vt models.VerificationToken
	if err := db.Where("token = ?", token).First(&vt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenNotFound
		}
		return err
	}

	if time.Now().After(vt.ExpiresAt) {
		_ = db.Delete(&vt).Error
		return ErrTokenExpired
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", vt.UserID).Update("enabled", true).Error; err != nil {
			return err
		}
		return tx.Delete(&vt).Error
	})
}

// Login checks credentials against an enabled account and issues a JWT.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, *models.User, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return "", nil, ErrInvalidCredentials
	}
	if !user.Enabled {
		return "", nil, ErrAccountDisabled
	}

	token, err := utils.GenerateToken(user.ID, user.Username, 72*time.Hour)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// GetUser returns a user by id.
func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindOrCreateOAuthUser resolves a third-party login to a local account,
// creating an enabled one on first sight. Username collisions get a short
// provider suffix, retried with the provider id as a last resort.
func (s *AuthService) FindOrCreateOAuthUser(ctx context.Context, provider, providerID, username, email string) (*models.User, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	err := db.Where("provider = ? AND provider_id = ?", provider, providerID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		Username:   s.uniqueUsername(ctx, sanitizeUsername(username), provider, providerID),
		Email:      email,
		Provider:   provider,
		ProviderID: providerID,
		Enabled:    true,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) uniqueUsername(ctx context.Context, base, provider, providerID string) string {
	if base == "" {
		base = provider + "_user"
	}
	candidates := []string{base, base + "_" + provider, base + "_" + providerID}
	for _, c := range candidates {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", c).Count(&count).Error; err == nil && count == 0 {
			return c
		}
	}
	return base + "_" + uuid.NewString()[:8]
}

func sanitizeUsername(input string) string {
	var b strings.Builder
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sendActivationMail fires the activation email through the notification
// queue; failures are logged only, registration already succeeded.
func (s *AuthService) sendActivationMail(user models.User, token string) {
	if s.notifier == nil || user.Email == "" {
		return
	}
	link := fmt.Sprintf("%s/api/v1/auth/verify/%s", s.baseURL, token)
	body := fmt.Sprintf("Thank you for signing up, %s. Please click the link below to activate your account:\n%s", user.Username, link)
	if err := s.notifier.Notify(user.Email, "Please activate your account", body); err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("activation mail enqueue failed user_id=%d err=%v", user.ID, err)
		}
	}
}
