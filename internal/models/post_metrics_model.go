package models

import "time"

// PostMetrics is one dated engagement snapshot for a published post, keyed
// by (linkedin_post_id, user_id, snapshot day). LinkedIn may revise counts
// between days, so the series is a time-ordered sample, not a cumulative
// counter.
type PostMetrics struct {
	ID             int64     `db:"id" json:"id"`
	LinkedinPostID string    `db:"linkedin_post_id" json:"linkedin_post_id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	Impressions    int64     `db:"impressions" json:"impressions"`
	Likes          int64     `db:"likes" json:"likes"`
	Comments       int64     `db:"comments" json:"comments"`
	Shares         int64     `db:"shares" json:"shares"`
	Clicks         int64     `db:"clicks" json:"clicks"`
	EngagementRate float64   `db:"engagement_rate" json:"engagement_rate"`
	SnapshotAt     time.Time `db:"snapshot_at" json:"snapshot_at"`
}
