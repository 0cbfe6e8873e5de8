package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goreddit/models"
	"goreddit/utils"
)

func registerRequest(name string) RegisterRequest {
	return RegisterRequest{
		Username: name,
		Email:    name + "@example.com",
		Password: "hunter22",
	}
}

func TestAuthService_Register(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	svc := NewAuthService(db, notifier, "http://localhost:8080")

	user, err := svc.Register(context.Background(), registerRequest("alice"))
	require.NoError(t, err)
	assert.False(t, user.Enabled)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	var token models.VerificationToken
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&token).Error)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	require.Len(t, notifier.Sent, 1)
	assert.Equal(t, "alice@example.com", notifier.Sent[0].To)
	assert.Contains(t, notifier.Sent[0].Body, "/api/v1/auth/verify/"+token.Token)
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, nil, "http://localhost:8080")

	_, err := svc.Register(context.Background(), registerRequest("alice"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerRequest("alice"))
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthService_Register_InvalidUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, nil, "http://localhost:8080")

	req := registerRequest("alice")
	req.Username = "al ice!"
	_, err := svc.Register(context.Background(), req)
	assert.Error(t, err)
}

func TestAuthService_VerifyAccount(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, nil, "http://localhost:8080")

	user, err := svc.Register(context.Background(), registerRequest("alice"))
	require.NoError(t, err)

	var token models.VerificationToken
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&token).Error)

	require.NoError(t, svc.VerifyAccount(context.Background(), token.Token))

	got, err := svc.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, got.Enabled)

	// Token is single-use.
	err = svc.VerifyAccount(context.Background(), token.Token)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestAuthService_VerifyAccount_Expired(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, nil, "http://localhost:8080")

	user, err := svc.Register(context.Background(), registerRequest("alice"))
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.VerificationToken{}).
		Where("user_id = ?", user.ID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	var token models.VerificationToken
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&token).Error)

	err = svc.VerifyAccount(context.Background(), token.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAuthService_Login(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, nil, "http://localhost:8080")

	user, err := svc.Register(context.Background(), registerRequest("alice"))
	require.NoError(t, err)

	// Unverified account cannot log in.
	_, _, err = svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrAccountDisabled)

	var token models.VerificationToken
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&token).Error)
	require.NoError(t, svc.VerifyAccount(context.Background(), token.Token))

	jwtStr, loggedIn, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := utils.ParseToken(jwtStr)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	_, _, err = svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), LoginRequest{Username: "nobody", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_FindOrCreateOAuthUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, nil, "http://localhost:8080")

	first, err := svc.FindOrCreateOAuthUser(context.Background(), "github", "12345", "alice", "alice@example.com")
	require.NoError(t, err)
	assert.True(t, first.Enabled)
	assert.Equal(t, "github", first.Provider)

	again, err := svc.FindOrCreateOAuthUser(context.Background(), "github", "12345", "alice", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
}

func TestAuthService_FindOrCreateOAuthUser_UsernameCollision(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, nil, "http://localhost:8080")
	seedUser(t, db, "alice", "local@example.com")

	user, err := svc.FindOrCreateOAuthUser(context.Background(), "github", "12345", "alice", "gh@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "alice", user.Username)
	assert.Contains(t, user.Username, "alice")
}
