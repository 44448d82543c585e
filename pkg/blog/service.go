package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
)

var (
	// ErrBusy rejects a second mutation against a target that already has
	// one in flight. Purely a client-side anti-double-submit guard.
	ErrBusy = errors.New("mutation already in flight for this target")
	// ErrStaleView marks a response that arrived after the view moved on;
	// the result was discarded, not applied.
	ErrStaleView = errors.New("view changed while request was in flight")

	ErrLoginRequired = errors.New("login required")
	ErrAdminOnly     = errors.New("admin access required")
	ErrEmptyPost     = errors.New("title and content must not be empty")
	ErrEmptyComment  = errors.New("comment must not be empty")
)

// createKey guards post creation, which has no server id yet.
const createKey = "new-post"

// Authorizer gates which mutations the client is allowed to start. The
// server still enforces everything; this only mirrors the UI gating.
type Authorizer interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

// BusyKey builds the per-target in-flight key: the post id alone, or
// "postID:commentID" for a specific comment.
func BusyKey(postID, commentID string) string {
	if commentID == "" {
		return postID
	}
	return postID + ":" + commentID
}

// Service runs the mutating operations against the remote API and merges
// each successful response into the repository.
type Service struct {
	Remote Remote
	Repo   *Repository
	Auth   Authorizer
	Logger *slog.Logger

	gen atomic.Uint64

	mu   sync.Mutex
	busy map[string]struct{}
}

func NewService(remote Remote, repo *Repository, auth Authorizer, logger *slog.Logger) *Service {
	return &Service{
		Remote: remote,
		Repo:   repo,
		Auth:   auth,
		Logger: logger,
		busy:   make(map[string]struct{}),
	}
}

// Invalidate marks every in-flight request as belonging to an abandoned
// view. Their responses will be discarded on arrival.
func (s *Service) Invalidate() {
	s.gen.Add(1)
}

// Busy reports whether a mutation for the key is in flight, for rendering
// disabled controls.
func (s *Service) Busy(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, inflight := s.busy[key]
	return inflight
}

func (s *Service) begin(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, inflight := s.busy[key]; inflight {
		return false
	}
	s.busy[key] = struct{}{}
	return true
}

func (s *Service) end(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, key)
}

// LoadAll replaces the whole collection with the server's current list.
func (s *Service) LoadAll(ctx context.Context) error {
	gen := s.gen.Load()

	posts, err := s.Remote.AllPosts(ctx)
	if err != nil {
		return fmt.Errorf("load posts: %w", err)
	}
	if s.gen.Load() != gen {
		return ErrStaleView
	}

	s.Repo.ReplaceAll(posts)
	return nil
}

// LoadOne fetches a single post with its comments and overwrites the cached
// copy.
func (s *Service) LoadOne(ctx context.Context, postID string) (*Post, error) {
	gen := s.gen.Load()

	p, err := s.Remote.PostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("load post %s: %w", postID, err)
	}
	if s.gen.Load() != gen {
		return nil, ErrStaleView
	}

	s.Repo.Upsert(p)
	return p, nil
}

// Create publishes a new post. The created aggregate is returned but not
// inserted into the collection; list views reload instead.
func (s *Service) Create(ctx context.Context, title, body string) (*Post, error) {
	if !s.Auth.IsAuthenticated() {
		return nil, ErrLoginRequired
	}

	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" || body == "" {
		return nil, ErrEmptyPost
	}

	if !s.begin(createKey) {
		return nil, ErrBusy
	}
	defer s.end(createKey)

	p, err := s.Remote.AddPost(ctx, title, body)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.Logger.Info("post created", "post", p.ID)
	return p, nil
}

// AddComment submits a comment and merges the returned aggregate. The
// server assigns the comment id and timestamp, so the stored post is
// replaced with the response rather than appended to locally.
func (s *Service) AddComment(ctx context.Context, postID, comment string) (*Post, error) {
	if !s.Auth.IsAuthenticated() {
		return nil, ErrLoginRequired
	}

	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, ErrEmptyComment
	}

	key := BusyKey(postID, "")
	if !s.begin(key) {
		return nil, ErrBusy
	}
	defer s.end(key)

	gen := s.gen.Load()

	p, err := s.Remote.AddComment(ctx, postID, comment)
	if err != nil {
		return nil, fmt.Errorf("add comment to %s: %w", postID, err)
	}
	if s.gen.Load() != gen {
		return nil, ErrStaleView
	}

	s.Repo.Upsert(p)
	s.Logger.Info("comment added", "post", p.ID)
	return p, nil
}

// DeletePost removes the post once the server confirms. No merge; the
// deletion is authoritative on success only.
func (s *Service) DeletePost(ctx context.Context, postID string) error {
	if !s.Auth.IsAdmin() {
		return ErrAdminOnly
	}

	key := BusyKey(postID, "")
	if !s.begin(key) {
		return ErrBusy
	}
	defer s.end(key)

	gen := s.gen.Load()

	if err := s.Remote.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("delete post %s: %w", postID, err)
	}
	if s.gen.Load() != gen {
		return ErrStaleView
	}

	s.Repo.Remove(postID)
	s.Logger.Info("post deleted", "post", postID)
	return nil
}

// DeleteComment removes one comment; the server answers with the updated
// aggregate, which replaces the stored post wholesale.
func (s *Service) DeleteComment(ctx context.Context, postID, commentID string) (*Post, error) {
	if !s.Auth.IsAdmin() {
		return nil, ErrAdminOnly
	}

	key := BusyKey(postID, commentID)
	if !s.begin(key) {
		return nil, ErrBusy
	}
	defer s.end(key)

	gen := s.gen.Load()

	p, err := s.Remote.DeleteComment(ctx, postID, commentID)
	if err != nil {
		return nil, fmt.Errorf("delete comment %s of %s: %w", commentID, postID, err)
	}
	if s.gen.Load() != gen {
		return nil, ErrStaleView
	}

	s.Repo.Upsert(p)
	s.Logger.Info("comment deleted", "post", postID, "comment", commentID)
	return p, nil
}
