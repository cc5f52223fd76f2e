package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/linkedbud/linkedbud/internal/models"
	"github.com/linkedbud/linkedbud/internal/repository"
	"github.com/linkedbud/linkedbud/internal/transfer"
)

// Analytics contexts. Anything else is a numeric organization id.
const (
	AnalyticsContextAll      = "all"
	AnalyticsContextPersonal = "personal"
)

var ErrInvalidAnalyticsPeriod = errors.New("period must be one of 7d, 30d, 90d, all, custom")

type AnalyticsService interface {
	Aggregate(ctx context.Context, userID int64, q transfer.AnalyticsQuery) (*transfer.AnalyticsResult, error)
}

type analyticsService struct {
	pp repository.PublishedPostRepository
	mr repository.MetricsRepository
}

func NewAnalyticsService(pp repository.PublishedPostRepository, mr repository.MetricsRepository) AnalyticsService {
	return &analyticsService{
		pp: pp,
		mr: mr,
	}
}

// resolveWindow turns a period selector into an absolute [start, end)
// window plus the immediately preceding window of equal length, used for
// trend deltas. The "all" period has no defined length, so its previous
// window is empty.
func resolveWindow(q transfer.AnalyticsQuery, now time.Time) (start, end, prevStart, prevEnd time.Time, err error) {
	end = now

	switch q.Period {
	case "7d":
		start = now.AddDate(0, 0, -7)
	case "30d":
		start = now.AddDate(0, 0, -30)
	case "90d":
		start = now.AddDate(0, 0, -90)
	case "all":
		return time.Time{}, now, time.Time{}, time.Time{}, nil
	case "custom":
		if q.CustomStart.IsZero() || q.CustomEnd.IsZero() || !q.CustomEnd.After(q.CustomStart) {
			return time.Time{}, time.Time{}, time.Time{}, time.Time{}, errors.New("custom period requires start before end")
		}
		start, end = q.CustomStart, q.CustomEnd
	default:
		return time.Time{}, time.Time{}, time.Time{}, time.Time{}, ErrInvalidAnalyticsPeriod
	}

	length := end.Sub(start)
	return start, end, start.Add(-length), start, nil
}

// matchesContext filters a publish record by analytics context: "all",
// "personal" (no organization) or a specific organization id.
func matchesContext(pp *models.PublishedPost, context string) bool {
	switch context {
	case AnalyticsContextAll, "":
		return true
	case AnalyticsContextPersonal:
		return pp.OrganizationID == ""
	default:
		return pp.OrganizationID == context
	}
}

func (s *analyticsService) Aggregate(ctx context.Context, userID int64, q transfer.AnalyticsQuery) (*transfer.AnalyticsResult, error) {
	start, end, prevStart, prevEnd, err := resolveWindow(q, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	current, err := s.windowTotals(ctx, userID, start, end, q.Context)
	if err != nil {
		return nil, fmt.Errorf("Error aggregating analytics")
	}

	result := transfer.AnalyticsResult{
		WindowStart: start,
		WindowEnd:   end,
		Totals:      current.totals,
		TopPosts:    rankPosts(current.ranked, q.SortColumn, q.SortDirection),
	}

	if !prevEnd.IsZero() {
		previous, err := s.windowTotals(ctx, userID, prevStart, prevEnd, q.Context)
		if err != nil {
			return nil, fmt.Errorf("Error aggregating analytics")
		}
		result.Trend = transfer.AnalyticsTrend{
			Impressions:    current.totals.Impressions - previous.totals.Impressions,
			Engagement:     current.totals.Engagement - previous.totals.Engagement,
			EngagementRate: current.totals.EngagementRate - previous.totals.EngagementRate,
		}
	}

	return &result, nil
}

type windowAggregate struct {
	totals transfer.AnalyticsTotals
	ranked []transfer.RankedPost
}

func (s *analyticsService) windowTotals(ctx context.Context, userID int64, start, end time.Time, context string) (*windowAggregate, error) {
	posts, err := s.pp.ListByUserWindow(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	var filtered []*models.PublishedPost
	var linkedinPostIDs []string
	for _, pp := range posts {
		if !matchesContext(pp, context) {
			continue
		}
		filtered = append(filtered, pp)
		if pp.Status == models.PostStatusPublished && pp.LinkedinPostID != "" {
			linkedinPostIDs = append(linkedinPostIDs, pp.LinkedinPostID)
		}
	}

	latest, err := s.mr.LatestForPosts(ctx, linkedinPostIDs)
	if err != nil {
		return nil, err
	}

	return aggregateWindow(filtered, latest), nil
}

// aggregateWindow folds publish records and their newest snapshots into
// window totals and the per-post rows rankings are computed from. Pure
// sums and ratios over already-materialized rows.
func aggregateWindow(posts []*models.PublishedPost, latest map[string]*models.PostMetrics) *windowAggregate {
	agg := windowAggregate{ranked: []transfer.RankedPost{}}

	for _, pp := range posts {
		switch pp.Status {
		case models.PostStatusPublished:
			agg.totals.PostsPublished++
		case models.PostStatusFailed:
			agg.totals.PostsFailed++
			continue
		}

		ranked := transfer.RankedPost{
			PostID:         pp.PostID,
			LinkedinPostID: pp.LinkedinPostID,
			Content:        pp.Content,
			OrganizationID: pp.OrganizationID,
			PublishedAt:    pp.PublishedAt,
		}

		if m, ok := latest[pp.LinkedinPostID]; ok {
			ranked.Impressions = m.Impressions
			ranked.Likes = m.Likes
			ranked.Comments = m.Comments
			ranked.Shares = m.Shares

			engagement := m.Likes + m.Comments + m.Shares
			ranked.EngagementRate = EngagementRate(engagement, m.Impressions)

			agg.totals.Impressions += m.Impressions
			agg.totals.Engagement += engagement
		}

		agg.ranked = append(agg.ranked, ranked)
	}

	agg.totals.EngagementRate = EngagementRate(agg.totals.Engagement, agg.totals.Impressions)
	return &agg
}

// rankPosts sorts by the requested column and direction with a stable
// tie-break on most recent published_at. Recomputed per request; sort
// parameters vary too much to cache.
func rankPosts(posts []transfer.RankedPost, sortColumn, sortDirection string) []transfer.RankedPost {
	ranked := make([]transfer.RankedPost, len(posts))
	copy(ranked, posts)

	ascending := sortDirection == "asc"

	value := func(p transfer.RankedPost) float64 {
		switch sortColumn {
		case "likes":
			return float64(p.Likes)
		case "comments":
			return float64(p.Comments)
		case "shares":
			return float64(p.Shares)
		case "engagement_rate":
			return p.EngagementRate
		case "published_at":
			return float64(p.PublishedAt.Unix())
		default:
			return float64(p.Impressions)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		vi, vj := value(ranked[i]), value(ranked[j])
		if vi == vj {
			return ranked[i].PublishedAt.After(ranked[j].PublishedAt)
		}
		if ascending {
			return vi < vj
		}
		return vi > vj
	})

	return ranked
}
