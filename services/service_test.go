package services

import (
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"goreddit/config"
	"goreddit/models"
	"goreddit/utils"
)

func init() {
	utils.Logger = zap.NewNop()
	utils.Sugar = utils.Logger.Sugar()
	config.SetForTesting(config.AppConfig{
		JWTSecret: "test-secret",
		BaseURL:   "http://localhost:8080",
	})
}

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// One connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Subreddit{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
		&models.VerificationToken{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// notification is one captured Notify call.
type notification struct {
	To      string
	Subject string
	Body    string
}

// fakeNotifier records notifications instead of enqueueing them. Setting Err
// makes every Notify call fail.
type fakeNotifier struct {
	Sent []notification
	Err  error
}

func (f *fakeNotifier) Notify(to, subject, body string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Sent = append(f.Sent, notification{To: to, Subject: subject, Body: body})
	return nil
}

func seedUser(t *testing.T, db *gorm.DB, username, email string) models.User {
	t.Helper()
	user := models.User{Username: username, Email: email, Enabled: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func seedSubreddit(t *testing.T, db *gorm.DB, name string, ownerID uint) models.Subreddit {
	t.Helper()
	sub := models.Subreddit{Name: name, Description: name + " community", CreatedByID: ownerID}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("seed subreddit %s: %v", name, err)
	}
	return sub
}

func seedPost(t *testing.T, db *gorm.DB, subID, userID uint, title string) models.Post {
	t.Helper()
	post := models.Post{SubredditID: subID, UserID: userID, Title: title}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("seed post %s: %v", title, err)
	}
	return post
}
