package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/linkedbud/linkedbud/internal/models"
	"github.com/linkedbud/linkedbud/internal/repository"
)

// MetricsService appends dated engagement snapshots for published posts.
// All failures are logged and reported as (nil, nil): metrics collection is
// best-effort and never blocks its callers.
type MetricsService interface {
	FetchAndStore(ctx context.Context, linkedinPostID string, userID int64, accessToken, organizationID string) (*models.PostMetrics, error)
}

type metricsService struct {
	mr repository.MetricsRepository
	li LinkedinService
}

func NewMetricsService(mr repository.MetricsRepository, li LinkedinService) MetricsService {
	return &metricsService{
		mr: mr,
		li: li,
	}
}

// UTCDayStart truncates t to UTC midnight, the snapshot bucket key.
func UTCDayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EngagementRate is engagement over impressions, zero when there are no
// impressions.
func EngagementRate(engagement, impressions int64) float64 {
	if impressions == 0 {
		return 0
	}
	return float64(engagement) / float64(impressions)
}

// FetchAndStore pulls today's counters for one post and upserts the
// snapshot for the current UTC day: repeated runs within a day collapse
// into one row, each day yields one distinct sample.
func (s *metricsService) FetchAndStore(ctx context.Context, linkedinPostID string, userID int64, accessToken, organizationID string) (*models.PostMetrics, error) {
	var organizationURN string
	if organizationID != "" {
		organizationURN = OrganizationURN(organizationID)
	}

	stats, err := s.li.FetchShareStatistics(ctx, accessToken, linkedinPostID, organizationURN)
	if err != nil {
		slog.Info(fmt.Sprintf("metrics fetch for %s failed: %v", linkedinPostID, err))
		return nil, nil
	}

	now := time.Now()
	dayStart := UTCDayStart(now)
	dayEnd := dayStart.Add(24 * time.Hour)

	engagement := stats.Likes + stats.Comments + stats.Shares

	snapshot := models.PostMetrics{
		LinkedinPostID: linkedinPostID,
		UserID:         userID,
		Impressions:    stats.Impressions,
		Likes:          stats.Likes,
		Comments:       stats.Comments,
		Shares:         stats.Shares,
		Clicks:         stats.Clicks,
		EngagementRate: EngagementRate(engagement, stats.Impressions),
		SnapshotAt:     now.UTC(),
	}

	existing, err := s.mr.GetForDay(ctx, linkedinPostID, userID, dayStart, dayEnd)
	if err != nil {
		slog.Info(fmt.Sprintf("metrics lookup for %s failed: %v", linkedinPostID, err))
		return nil, nil
	}

	if existing != nil {
		snapshot.ID = existing.ID
		if err := s.mr.Update(ctx, &snapshot); err != nil {
			slog.Info(fmt.Sprintf("metrics update for %s failed: %v", linkedinPostID, err))
			return nil, nil
		}
		return &snapshot, nil
	}

	id, err := s.mr.Create(ctx, &snapshot)
	if err != nil {
		slog.Info(fmt.Sprintf("metrics insert for %s failed: %v", linkedinPostID, err))
		return nil, nil
	}
	snapshot.ID = id

	return &snapshot, nil
}
