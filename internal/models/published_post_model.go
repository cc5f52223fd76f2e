package models

import "time"

// PublishedPost is the log of publish attempts, one row per attempt.
// LinkedinPostID is set only on success. OrganizationID empty means the
// post went to the member's personal profile.
type PublishedPost struct {
	ID             int64     `db:"id" json:"id"`
	PostID         int64     `db:"post_id" json:"post_id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	LinkedinPostID string    `db:"linkedin_post_id" json:"linkedin_post_id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	Status         string    `db:"status" json:"status"`
	Content        string    `db:"content" json:"content"`
	ErrorMessage   string    `db:"error_message" json:"error_message"`
	PublishedAt    time.Time `db:"published_at" json:"published_at"`
}
