package transfer

import "time"

// PostCreation is the multipart draft form. ScheduledTime empty means the
// draft is saved without scheduling.
type PostCreation struct {
	Content       string
	PublishTarget string
	ScheduledTime string
}

type PublishResult struct {
	LinkedinPostID string `json:"linkedin_post_id"`
}

// AnalyticsQuery selects the aggregation window and context.
// Period is one of 7d, 30d, 90d, all, custom; Context is "all", "personal"
// or a numeric organization id.
type AnalyticsQuery struct {
	Period        string
	CustomStart   time.Time
	CustomEnd     time.Time
	Context       string
	SortColumn    string
	SortDirection string
}

type AnalyticsTotals struct {
	Impressions    int64   `json:"impressions"`
	Engagement     int64   `json:"engagement"`
	EngagementRate float64 `json:"engagement_rate"`
	PostsPublished int     `json:"posts_published"`
	PostsFailed    int     `json:"posts_failed"`
}

// AnalyticsTrend carries the delta of the current window against the
// immediately preceding window of equal length.
type AnalyticsTrend struct {
	Impressions    int64   `json:"impressions"`
	Engagement     int64   `json:"engagement"`
	EngagementRate float64 `json:"engagement_rate"`
}

type RankedPost struct {
	PostID         int64     `json:"post_id"`
	LinkedinPostID string    `json:"linkedin_post_id"`
	Content        string    `json:"content"`
	OrganizationID string    `json:"organization_id"`
	Impressions    int64     `json:"impressions"`
	Likes          int64     `json:"likes"`
	Comments       int64     `json:"comments"`
	Shares         int64     `json:"shares"`
	EngagementRate float64   `json:"engagement_rate"`
	PublishedAt    time.Time `json:"published_at"`
}

type AnalyticsResult struct {
	WindowStart time.Time       `json:"window_start"`
	WindowEnd   time.Time       `json:"window_end"`
	Totals      AnalyticsTotals `json:"totals"`
	Trend       AnalyticsTrend  `json:"trend"`
	TopPosts    []RankedPost    `json:"top_posts"`
}
