package httpapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pkalnins/gallery/internal/common"
	"github.com/pkalnins/gallery/internal/dbx"
	"github.com/pkalnins/gallery/internal/logging"
	"github.com/pkalnins/gallery/internal/server/media"
	"github.com/pkalnins/gallery/internal/server/models"
	"github.com/pkalnins/gallery/internal/server/repositories/posts"
	"github.com/pkalnins/gallery/internal/server/repositories/users"
)

// In-memory repository manager so the handler tests can drive the real
// services end to end without Postgres.

type memUsers struct {
	mu     sync.Mutex
	seq    int
	byID   map[string]*models.User
	emails map[string]string
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*models.User{}, emails: map[string]string{}}
}

func (m *memUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.emails[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}

	m.seq++
	user.ID = fmt.Sprintf("u-%d", m.seq)
	user.CreatedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	m.byID[user.ID] = user
	m.emails[user.Email] = user.ID

	return user, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.emails[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return m.byID[id], nil
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return user, nil
}

func (m *memUsers) PrependPost(ctx context.Context, userID, postID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	user.PostIDs = append([]string{postID}, user.PostIDs...)
	return nil
}

func (m *memUsers) RemovePost(ctx context.Context, userID, postID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}

	kept := user.PostIDs[:0]
	for _, id := range user.PostIDs {
		if id != postID {
			kept = append(kept, id)
		}
	}
	user.PostIDs = kept
	return nil
}

type memPosts struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*models.Post
}

func newMemPosts() *memPosts {
	return &memPosts{byID: map[string]*models.Post{}}
}

func (m *memPosts) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	post.ID = fmt.Sprintf("p-%d", m.seq)
	post.CreatedAt = time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)
	m.byID[post.ID] = post

	return post, nil
}

func (m *memPosts) GetByID(ctx context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return post, nil
}

func (m *memPosts) ListByIDs(ctx context.Context, ids []string) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*models.Post
	for _, id := range ids {
		if post, ok := m.byID[id]; ok {
			result = append(result, post)
		}
	}
	return result, nil
}

func (m *memPosts) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memPosts) SearchByCaption(ctx context.Context, ownerID, query string) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*models.Post
	for _, post := range m.byID {
		if post.OwnerID == ownerID && strings.Contains(strings.ToLower(post.Caption), strings.ToLower(query)) {
			result = append(result, post)
		}
	}
	return result, nil
}

type fakeManager struct {
	users *memUsers
	posts *memPosts
}

func newFakeManager() *fakeManager {
	return &fakeManager{users: newMemUsers(), posts: newMemPosts()}
}

func (m *fakeManager) Users(db dbx.DBTX) users.Repository { return m.users }
func (m *fakeManager) Posts(db dbx.DBTX) posts.Repository { return m.posts }

type fakeMediaStore struct {
	mu      sync.Mutex
	seq     int
	deleted []string
}

func (f *fakeMediaStore) Upload(ctx context.Context, body io.Reader, contentType string) (*media.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	key := fmt.Sprintf("gallery/test/key-%d", f.seq)
	return &media.Object{Key: key, URL: "http://127.0.0.1:9000/gallery/" + key}, nil
}

func (f *fakeMediaStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, key)
	return nil
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
