package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_Create(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	author := seedUser(t, db, "alice", "alice@example.com")
	seedSubreddit(t, db, "golang", author.ID)

	resp, err := svc.Create(context.Background(), author.ID, PostRequest{
		SubredditName: "golang",
		Title:         "go 1.21 highlights",
		URL:           "https://example.com/go121",
		Description:   "what changed",
	})
	require.NoError(t, err)
	assert.Equal(t, "go 1.21 highlights", resp.Title)
	assert.Equal(t, "alice", resp.Author)
	assert.Equal(t, "golang", resp.SubredditName)
	assert.Equal(t, 0, resp.VoteCount)
	assert.Equal(t, int64(0), resp.CommentCount)

	got, err := svc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Title, got.Title)
	assert.Equal(t, 0, got.VoteCount)
}

func TestPostService_Create_UnknownSubreddit(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	author := seedUser(t, db, "alice", "alice@example.com")

	_, err := svc.Create(context.Background(), author.ID, PostRequest{
		SubredditName: "nope",
		Title:         "lost post",
	})
	assert.ErrorIs(t, err, ErrSubredditNotFound)
}

func TestPostService_Create_UnknownAuthor(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	owner := seedUser(t, db, "alice", "alice@example.com")
	seedSubreddit(t, db, "golang", owner.ID)

	_, err := svc.Create(context.Background(), 9999, PostRequest{
		SubredditName: "golang",
		Title:         "ghost post",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// The author field of a listed post is the user who created it, never the
// user performing the request.
func TestPostService_ListBySubreddit_AuthorIsStoredAuthor(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	alice := seedUser(t, db, "alice", "alice@example.com")
	bob := seedUser(t, db, "bob", "bob@example.com")
	sub := seedSubreddit(t, db, "golang", alice.ID)
	seedPost(t, db, sub.ID, alice.ID, "alice writes")
	seedPost(t, db, sub.ID, bob.ID, "bob writes")

	posts, err := svc.ListBySubreddit(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	byTitle := map[string]string{}
	for _, p := range posts {
		byTitle[p.Title] = p.Author
	}
	assert.Equal(t, "alice", byTitle["alice writes"])
	assert.Equal(t, "bob", byTitle["bob writes"])
}

func TestPostService_ListBySubreddit_MissingVsEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	owner := seedUser(t, db, "alice", "alice@example.com")
	sub := seedSubreddit(t, db, "ghosttown", owner.ID)

	_, err := svc.ListBySubreddit(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrSubredditNotFound)

	_, err = svc.ListBySubreddit(context.Background(), sub.ID)
	assert.ErrorIs(t, err, ErrNoPosts)
}

func TestPostService_ListByUser_MissingVsEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	seedUser(t, db, "quietuser", "quiet@example.com")

	_, err := svc.ListByUser(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.ListByUser(context.Background(), "quietuser")
	assert.ErrorIs(t, err, ErrNoPosts)
}

func TestPostService_Get_CommentCount(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	comments := NewCommentService(db, nil)
	author := seedUser(t, db, "alice", "alice@example.com")
	sub := seedSubreddit(t, db, "golang", author.ID)
	post := seedPost(t, db, sub.ID, author.ID, "discuss")

	for i := 0; i < 3; i++ {
		_, err := comments.Create(context.Background(), author.ID, CommentRequest{
			PostID: post.ID,
			Text:   "reply",
		})
		require.NoError(t, err)
	}

	got, err := svc.Get(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.CommentCount)
}
