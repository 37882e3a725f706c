package posts

import (
	"context"

	"github.com/pkalnins/gallery/internal/server/models"
)

// Repository persists posts. Ordering of a user's gallery comes from the
// owner-list on the user record, not from this repository.
type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)

	// ListByIDs returns the posts for the given IDs, preserving the order of ids.
	ListByIDs(ctx context.Context, ids []string) ([]*models.Post, error)

	// Delete removes the post. Returns common.ErrorNotFound for an unknown id.
	Delete(ctx context.Context, id string) error

	// SearchByCaption returns the owner's posts whose caption contains query,
	// case-insensitive, most recent first.
	SearchByCaption(ctx context.Context, ownerID string, query string) ([]*models.Post, error)
}
