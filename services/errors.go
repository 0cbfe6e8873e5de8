package services

import "errors"

// Sentinel errors returned by the service layer. Controllers translate these
// into HTTP statuses; anything not listed here is treated as an internal error.
var (
	// Referenced entity does not exist.
	ErrSubredditNotFound = errors.New("subreddit not found")
	ErrPostNotFound      = errors.New("post not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrTokenNotFound     = errors.New("verification token not found")

	// Parent entity exists but has no matching children. Distinct from the
	// not-found errors above so the API can answer 404 vs empty differently.
	ErrNoPosts    = errors.New("no posts found")
	ErrNoComments = errors.New("no comments found")

	// Conflicts.
	ErrSubredditExists = errors.New("subreddit name already taken")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrAlreadyVoted    = errors.New("already voted in this direction")

	// Auth failures.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is not verified")
	ErrTokenExpired       = errors.New("verification token expired")

	ErrInvalidVote = errors.New("vote direction must be 1 or -1")
)
