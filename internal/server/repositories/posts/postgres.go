package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pkalnins/gallery/internal/common"
	"github.com/pkalnins/gallery/internal/dbx"
	"github.com/pkalnins/gallery/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {

	query :=
		`INSERT INTO posts (caption, image_key, image_url, owner_id)
         VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		post.Caption, post.ImageKey, post.ImageURL, post.OwnerID).Scan(&post.ID, &post.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query :=
		`SELECT id, caption, image_key, image_url, owner_id, created_at FROM posts
		 WHERE id = $1
		 `

	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.Caption, &post.ImageKey, &post.ImageURL, &post.OwnerID, &post.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []string) ([]*models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query :=
		`SELECT id, caption, image_key, image_url, owner_id, created_at FROM posts
		 WHERE id = ANY($1::uuid[])
		 ORDER BY array_position($1::uuid[], id)
		 `

	rows, err := r.db.QueryContext(ctx, query, arrayLiteral(ids))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM posts
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) SearchByCaption(ctx context.Context, ownerID string, query string) ([]*models.Post, error) {
	q :=
		`SELECT id, caption, image_key, image_url, owner_id, created_at FROM posts
		 WHERE owner_id = $1 AND caption ILIKE '%' || $2 || '%'
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, q, ownerID, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

// arrayLiteral renders a Postgres array literal for a list of UUIDs. Safe
// because UUID strings contain no quoting or separator characters.
func arrayLiteral(ids []string) string {
	return "{" + strings.Join(ids, ",") + "}"
}

func collectPosts(rows *sql.Rows) ([]*models.Post, error) {
	var result []*models.Post

	for rows.Next() {
		post := &models.Post{}
		if err := rows.Scan(&post.ID, &post.Caption, &post.ImageKey, &post.ImageURL, &post.OwnerID, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
