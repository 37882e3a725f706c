// Package state caches the authenticated user and their gallery on the
// client side. Every successful mutation invalidates the cache and re-fetches
// the current user, so the post list and counts stay consistent with the
// server.
package state

import (
	"context"
	"io"
	"sync"

	"github.com/pkalnins/gallery/internal/client/api"
)

// Store is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	client *api.Client
	user   *api.User
	posts  []api.Post
}

func New(client *api.Client) *Store {
	return &Store{client: client}
}

// CurrentUser returns the cached user and gallery; ok is false before login
// or after logout.
func (s *Store) CurrentUser() (user *api.User, posts []api.Post, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil, nil, false
	}
	return s.user, s.posts, true
}

func (s *Store) Register(ctx context.Context, name, email, password string) (*api.User, error) {
	return s.client.Register(ctx, name, email, password)
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	if _, err := s.client.Login(ctx, email, password); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *Store) Logout(ctx context.Context) error {
	if err := s.client.Logout(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = nil
	s.posts = nil
	s.mu.Unlock()

	return nil
}

func (s *Store) CreatePost(ctx context.Context, caption, filename string, image io.Reader) error {
	if err := s.client.CreatePost(ctx, caption, filename, image); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	if err := s.client.DeletePost(ctx, id); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *Store) SearchPosts(ctx context.Context, title string) ([]api.Post, error) {
	return s.client.SearchPosts(ctx, title)
}

// Refresh re-fetches the current user and replaces the cache. The server
// response always wins; there is no merge.
func (s *Store) Refresh(ctx context.Context) error {
	user, posts, err := s.client.Me(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.user = user
	s.posts = posts
	s.mu.Unlock()

	return nil
}
