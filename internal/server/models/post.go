package models

import "time"

// Post is a single image+caption record. ImageKey identifies the object in
// the media store, ImageURL is the durable public URL derived from it.
type Post struct {
	ID        string
	Caption   string
	ImageKey  string
	ImageURL  string
	OwnerID   string
	CreatedAt time.Time
}
