package job

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/linkedbud/linkedbud/internal/models"
	"github.com/linkedbud/linkedbud/internal/repository"
	"github.com/linkedbud/linkedbud/internal/service"
)

// metricsWindowDays bounds the batch to posts still young enough to move.
const metricsWindowDays = 30

// MetricsJob is the sole producer of metrics snapshots. It runs daily and
// fans out one fetch per recently published post; fetches are independent
// by construction (distinct post ids, no shared rows), so they run
// concurrently and a failure for one post never blocks the rest.
type MetricsJob struct {
	pp repository.PublishedPostRepository
	ts service.TokenService
	ms service.MetricsService
}

func NewMetricsJob(
	pp repository.PublishedPostRepository,
	ts service.TokenService,
	ms service.MetricsService) *MetricsJob {
	return &MetricsJob{
		pp: pp,
		ts: ts,
		ms: ms,
	}
}

func (j *MetricsJob) CollectMetrics() {
	ctx := context.Background()

	since := time.Now().AddDate(0, 0, -metricsWindowDays)
	posts, err := j.pp.ListPublishedSince(ctx, since)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, post := range posts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(post *models.PublishedPost) {
			defer wg.Done()
			defer func() { <-semaphore }()

			tokenType := models.TokenTypePersonal
			if post.OrganizationID != "" {
				tokenType = models.TokenTypeCommunity
			}

			token, err := j.ts.GetToken(ctx, post.UserID, tokenType)
			if err != nil || token == nil {
				slog.Info(fmt.Sprintf("skipping metrics for %s: no usable %s token for user %d", post.LinkedinPostID, tokenType, post.UserID))
				return
			}

			j.ms.FetchAndStore(ctx, post.LinkedinPostID, post.UserID, token.AccessToken, post.OrganizationID)
		}(post)
	}

	wg.Wait()
}
