package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubredditService_Create(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubredditService(db)
	owner := seedUser(t, db, "alice", "alice@example.com")

	resp, err := svc.Create(context.Background(), owner.ID, SubredditRequest{
		Name:        "golang",
		Description: "all things Go",
	})
	require.NoError(t, err)
	assert.Equal(t, "golang", resp.Name)
	assert.Equal(t, int64(0), resp.PostCount)
	assert.NotZero(t, resp.ID)
}

func TestSubredditService_Create_DuplicateName(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubredditService(db)
	owner := seedUser(t, db, "alice", "alice@example.com")

	_, err := svc.Create(context.Background(), owner.ID, SubredditRequest{Name: "golang"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), owner.ID, SubredditRequest{Name: "golang"})
	assert.ErrorIs(t, err, ErrSubredditExists)
}

func TestSubredditService_List_PostCounts(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubredditService(db)
	owner := seedUser(t, db, "alice", "alice@example.com")

	golang := seedSubreddit(t, db, "golang", owner.ID)
	seedSubreddit(t, db, "cooking", owner.ID)
	seedPost(t, db, golang.ID, owner.ID, "generics in practice")
	seedPost(t, db, golang.ID, owner.ID, "error wrapping")

	subs, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 2)

	byName := map[string]SubredditResponse{}
	for _, s := range subs {
		byName[s.Name] = s
	}
	assert.Equal(t, int64(2), byName["golang"].PostCount)
	assert.Equal(t, int64(0), byName["cooking"].PostCount)
	assert.Equal(t, golang.ID, byName["golang"].ID)
}

func TestSubredditService_Get_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubredditService(db)

	_, err := svc.Get(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrSubredditNotFound)
}
