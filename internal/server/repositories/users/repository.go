package users

import (
	"context"

	"github.com/pkalnins/gallery/internal/server/models"
)

// Repository persists users and maintains the embedded owner-list of post IDs.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)

	// PrependPost puts postID at the head of the user's post list.
	// Returns common.ErrorNotFound if the user does not exist.
	PrependPost(ctx context.Context, userID string, postID string) error

	// RemovePost drops postID from the user's post list.
	RemovePost(ctx context.Context, userID string, postID string) error
}
