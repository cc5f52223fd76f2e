package models

import "time"

// PublishTargetPersonal is the literal publish target for the member's own
// profile. Any other target value is a numeric organization id string.
const PublishTargetPersonal = "personal"

type Post struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	Content       string    `db:"content" json:"content"`
	PublishTarget string    `db:"publish_target" json:"publish_target"`
	ScheduledTime time.Time `db:"scheduled_time" json:"scheduled_time"`
	Status        string    `db:"status" json:"status"`
	PublishedAt   time.Time `db:"published_at" json:"published_at"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

const (
	PostStatusDraft     = "DRAFT"
	PostStatusScheduled = "SCHEDULED"
	PostStatusPublished = "PUBLISHED"
	PostStatusFailed    = "FAILED"
)

// Attachment kinds. A post carries at most one of each.
const (
	AttachmentKindImage    = "image"
	AttachmentKindDocument = "document"
	AttachmentKindVideo    = "video"
)

type PostAttachment struct {
	ID          int64     `db:"id" json:"id"`
	PostID      int64     `db:"post_id" json:"post_id"`
	Kind        string    `db:"kind" json:"kind"`
	FileName    string    `db:"file_name" json:"file_name"`
	ContentType string    `db:"content_type" json:"content_type"`
	FileSize    int64     `db:"file_size" json:"file_size"`
	StorageKey  string    `db:"storage_key" json:"storage_key"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
