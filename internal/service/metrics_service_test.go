package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/linkedbud/linkedbud/internal/models"
	"github.com/linkedbud/linkedbud/internal/transfer"
)

func TestUTCDayStart(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "midday utc",
			in:   time.Date(2026, 3, 5, 14, 30, 12, 0, time.UTC),
			want: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "already midnight",
			in:   time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
			want: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "local evening crosses the utc day boundary",
			in:   time.Date(2026, 3, 5, 22, 0, 0, 0, est),
			want: time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UTCDayStart(tt.in); !got.Equal(tt.want) {
				t.Errorf("UTCDayStart(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEngagementRate(t *testing.T) {
	tests := []struct {
		name        string
		engagement  int64
		impressions int64
		want        float64
	}{
		{name: "zero impressions", engagement: 10, impressions: 0, want: 0},
		{name: "zero engagement", engagement: 0, impressions: 100, want: 0},
		{name: "ratio", engagement: 25, impressions: 100, want: 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EngagementRate(tt.engagement, tt.impressions); got != tt.want {
				t.Errorf("EngagementRate(%d, %d) = %v, want %v", tt.engagement, tt.impressions, got, tt.want)
			}
		})
	}
}

func TestFetchAndStoreUpsertsWithinDay(t *testing.T) {
	mr := &fakeMetricsRepo{}
	mr.GetForDayFn = func(ctx context.Context, linkedinPostID string, userID int64, dayStart, dayEnd time.Time) (*models.PostMetrics, error) {
		if len(mr.created) == 0 {
			return nil, nil
		}
		return mr.created[0], nil
	}

	li := &fakeLinkedin{
		FetchShareStatisticsFn: func(ctx context.Context, accessToken, postURN, organizationURN string) (*transfer.LinkedinShareStatistics, error) {
			return &transfer.LinkedinShareStatistics{
				Impressions: 200,
				Likes:       10,
				Comments:    5,
				Shares:      5,
				Clicks:      8,
			}, nil
		},
	}
	svc := NewMetricsService(mr, li)

	first, err := svc.FetchAndStore(context.Background(), "urn:li:share:1", 1, "token", "")
	if err != nil || first == nil {
		t.Fatalf("first run: %+v, %v", first, err)
	}
	if first.EngagementRate != 0.1 {
		t.Errorf("engagement rate = %v, want 0.1", first.EngagementRate)
	}

	second, err := svc.FetchAndStore(context.Background(), "urn:li:share:1", 1, "token", "")
	if err != nil || second == nil {
		t.Fatalf("second run: %+v, %v", second, err)
	}

	// A second run on the same day overwrites the day's snapshot instead
	// of appending another row.
	if len(mr.created) != 1 {
		t.Errorf("created %d rows, want 1", len(mr.created))
	}
	if len(mr.updated) != 1 {
		t.Errorf("updated %d rows, want 1", len(mr.updated))
	}
	if second.ID != first.ID {
		t.Errorf("second snapshot id = %d, want %d", second.ID, first.ID)
	}
}

func TestFetchAndStoreOrganizationURN(t *testing.T) {
	mr := &fakeMetricsRepo{}
	var gotOrgURN string
	li := &fakeLinkedin{
		FetchShareStatisticsFn: func(ctx context.Context, accessToken, postURN, organizationURN string) (*transfer.LinkedinShareStatistics, error) {
			gotOrgURN = organizationURN
			return &transfer.LinkedinShareStatistics{}, nil
		},
	}
	svc := NewMetricsService(mr, li)

	if _, err := svc.FetchAndStore(context.Background(), "urn:li:share:1", 1, "token", "555"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotOrgURN != "urn:li:organization:555" {
		t.Errorf("organization URN = %q", gotOrgURN)
	}
}

func TestFetchAndStoreProviderFailure(t *testing.T) {
	mr := &fakeMetricsRepo{}
	li := &fakeLinkedin{
		FetchShareStatisticsFn: func(ctx context.Context, accessToken, postURN, organizationURN string) (*transfer.LinkedinShareStatistics, error) {
			return nil, errors.New("403 forbidden")
		},
	}
	svc := NewMetricsService(mr, li)

	snapshot, err := svc.FetchAndStore(context.Background(), "urn:li:share:1", 1, "token", "")
	if err != nil {
		t.Fatalf("fetch failure must not surface an error, got %v", err)
	}
	if snapshot != nil {
		t.Errorf("fetch failure must yield no snapshot, got %+v", snapshot)
	}
	if len(mr.created) != 0 || len(mr.updated) != 0 {
		t.Error("fetch failure must not write any rows")
	}
}
