package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goreddit/models"
)

func voteCount(t *testing.T, svc *PostService, id uint) int {
	t.Helper()
	post, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	return post.VoteCount
}

func TestVoteService_FirstVote(t *testing.T) {
	db := newTestDB(t)
	votes := NewVoteService(db)
	posts := NewPostService(db)
	alice := seedUser(t, db, "alice", "alice@example.com")
	sub := seedSubreddit(t, db, "golang", alice.ID)
	post := seedPost(t, db, sub.ID, alice.ID, "vote on me")

	err := votes.Vote(context.Background(), alice.ID, VoteRequest{PostID: post.ID, Direction: models.Upvote})
	require.NoError(t, err)
	assert.Equal(t, 1, voteCount(t, posts, post.ID))
}

func TestVoteService_SwitchDirection(t *testing.T) {
	db := newTestDB(t)
	votes := NewVoteService(db)
	posts := NewPostService(db)
	alice := seedUser(t, db, "alice", "alice@example.com")
	sub := seedSubreddit(t, db, "golang", alice.ID)
	post := seedPost(t, db, sub.ID, alice.ID, "vote on me")

	require.NoError(t, votes.Vote(context.Background(), alice.ID, VoteRequest{PostID: post.ID, Direction: models.Upvote}))
	require.NoError(t, votes.Vote(context.Background(), alice.ID, VoteRequest{PostID: post.ID, Direction: models.Downvote}))

	// +1 then -2 leaves the counter at -1, matching a single downvote.
	assert.Equal(t, -1, voteCount(t, posts, post.ID))
}

func TestVoteService_RepeatDirection(t *testing.T) {
	db := newTestDB(t)
	votes := NewVoteService(db)
	posts := NewPostService(db)
	alice := seedUser(t, db, "alice", "alice@example.com")
	sub := seedSubreddit(t, db, "golang", alice.ID)
	post := seedPost(t, db, sub.ID, alice.ID, "vote on me")

	require.NoError(t, votes.Vote(context.Background(), alice.ID, VoteRequest{PostID: post.ID, Direction: models.Upvote}))
	err := votes.Vote(context.Background(), alice.ID, VoteRequest{PostID: post.ID, Direction: models.Upvote})
	assert.ErrorIs(t, err, ErrAlreadyVoted)
	assert.Equal(t, 1, voteCount(t, posts, post.ID))
}

func TestVoteService_TwoVoters(t *testing.T) {
	db := newTestDB(t)
	votes := NewVoteService(db)
	posts := NewPostService(db)
	alice := seedUser(t, db, "alice", "alice@example.com")
	bob := seedUser(t, db, "bob", "bob@example.com")
	sub := seedSubreddit(t, db, "golang", alice.ID)
	post := seedPost(t, db, sub.ID, alice.ID, "vote on me")

	require.NoError(t, votes.Vote(context.Background(), alice.ID, VoteRequest{PostID: post.ID, Direction: models.Upvote}))
	require.NoError(t, votes.Vote(context.Background(), bob.ID, VoteRequest{PostID: post.ID, Direction: models.Upvote}))
	assert.Equal(t, 2, voteCount(t, posts, post.ID))
}

func TestVoteService_InvalidDirection(t *testing.T) {
	db := newTestDB(t)
	votes := NewVoteService(db)
	alice := seedUser(t, db, "alice", "alice@example.com")

	err := votes.Vote(context.Background(), alice.ID, VoteRequest{PostID: 1, Direction: 5})
	assert.ErrorIs(t, err, ErrInvalidVote)
}

func TestVoteService_UnknownPost(t *testing.T) {
	db := newTestDB(t)
	votes := NewVoteService(db)
	alice := seedUser(t, db, "alice", "alice@example.com")

	err := votes.Vote(context.Background(), alice.ID, VoteRequest{PostID: 9999, Direction: models.Upvote})
	assert.ErrorIs(t, err, ErrPostNotFound)
}
