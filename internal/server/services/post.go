package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/pkalnins/gallery/internal/common"
	"github.com/pkalnins/gallery/internal/dbx"
	"github.com/pkalnins/gallery/internal/logging"
	"github.com/pkalnins/gallery/internal/server/media"
	"github.com/pkalnins/gallery/internal/server/models"
	"github.com/pkalnins/gallery/internal/server/repositories/repomanager"
)

// PostService orchestrates the post lifecycle: upload to the media store,
// persist the record, keep the owner-list in sync, and clean up remote images
// on deletion.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       media.Store
	logger      logging.Logger
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager, store media.Store, logger logging.Logger) *PostService {
	return &PostService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger.With("module", "post_service"),
	}
}

// Create uploads the image, persists the post, then prepends the post ID to
// the owner's list. The two database writes are deliberately separate
// statements with no transaction: if the owner row is gone by the time the
// list is updated, the post stays unlinked and the call still succeeds,
// matching the upstream behavior of the gallery.
func (s *PostService) Create(ctx context.Context, ownerID, caption string, image io.Reader, contentType string) (*models.Post, error) {
	if ownerID == "" {
		return nil, common.ErrorUnauthorized
	}

	obj, err := s.store.Upload(ctx, image, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	post := &models.Post{
		Caption:  caption,
		ImageKey: obj.Key,
		ImageURL: obj.URL,
		OwnerID:  ownerID,
	}

	post, err = s.repomanager.Posts(s.db).Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	if err := s.repomanager.Users(s.db).PrependPost(ctx, ownerID, post.ID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "owner missing, post left unlinked", "post_id", post.ID, "owner_id", ownerID)
			return post, nil
		}
		return nil, fmt.Errorf("error linking post to owner: %w", err)
	}

	return post, nil
}

// Delete removes the caller's post and its owner-list entry in one
// transaction, then deletes the remote image best-effort. Rejects with
// ErrorNotFound for an unknown ID and ErrorForbidden when the caller does
// not own the post.
func (s *PostService) Delete(ctx context.Context, callerID, postID string) error {
	post, err := s.repomanager.Posts(s.db).GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if post.OwnerID != callerID {
		return common.ErrorForbidden
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Posts(tx).Delete(ctx, postID); err != nil {
			return err
		}
		return s.repomanager.Users(tx).RemovePost(ctx, callerID, postID)
	})
	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}

	// The DB is the source of truth; a failed remote delete must not
	// resurrect the post.
	if err := s.store.Delete(ctx, post.ImageKey); err != nil {
		s.logger.Warn(ctx, "remote image delete failed", "key", post.ImageKey, "error", err.Error())
	}

	return nil
}

// Search returns the caller's posts whose caption contains query,
// case-insensitive, most recent first.
func (s *PostService) Search(ctx context.Context, callerID, query string) ([]*models.Post, error) {
	posts, err := s.repomanager.Posts(s.db).SearchByCaption(ctx, callerID, query)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return posts, nil
}
