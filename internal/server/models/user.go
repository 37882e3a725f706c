// Package models holds the server-side entity types persisted in Postgres.
package models

import "time"

// User owns an ordered list of post IDs, most recent first. The list is the
// read path for "my posts" ordering.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	PostIDs      []string
	CreatedAt    time.Time
}
