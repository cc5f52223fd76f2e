package service

import (
	"context"
	"testing"

	config "github.com/linkedbud/linkedbud/configs"
	"github.com/linkedbud/linkedbud/internal/models"
	"github.com/linkedbud/linkedbud/internal/transfer"
)

func subscriptionEvent(eventName, subscriptionID string, customData map[string]string) *transfer.SubscriptionEvent {
	event := &transfer.SubscriptionEvent{}
	event.Meta.EventName = eventName
	event.Meta.CustomData = customData
	event.Data.ID = subscriptionID
	event.Data.Attributes.Status = "active"
	event.Data.Attributes.UserEmail = "owner@example.com"
	return event
}

func TestWebhookCustomDataNamesUser(t *testing.T) {
	sr := &fakeSubscriptionRepo{
		GetBySubscriptionIDFn: func(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
			t.Error("subscription lookup ran despite custom data")
			return nil, nil
		},
	}
	svc := NewBillingService(config.Config{}, &fakeUserRepo{}, sr)

	event := subscriptionEvent("subscription_created", "sub-100", map[string]string{"user_id": "3"})
	if err := svc.HandleWebhook(context.Background(), event); err != nil {
		t.Fatalf("HandleWebhook returned %v", err)
	}
	if len(sr.upserts) != 1 || sr.upserts[0].UserID != 3 {
		t.Fatalf("upserts = %+v, want one row for user 3", sr.upserts)
	}
}

func TestWebhookResolvesUserFromStoredSubscription(t *testing.T) {
	sr := &fakeSubscriptionRepo{
		GetBySubscriptionIDFn: func(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
			if subscriptionID != "sub-100" {
				t.Errorf("looked up subscription %q", subscriptionID)
			}
			return &models.Subscription{UserID: 7, SubscriptionID: subscriptionID}, nil
		},
	}
	emailLookups := 0
	u := &fakeUserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*models.User, bool, error) {
			emailLookups++
			return nil, false, nil
		},
	}
	svc := NewBillingService(config.Config{}, u, sr)

	// Renewal events carry no custom data; the stored row names the owner.
	event := subscriptionEvent("subscription_updated", "sub-100", nil)
	if err := svc.HandleWebhook(context.Background(), event); err != nil {
		t.Fatalf("HandleWebhook returned %v", err)
	}
	if len(sr.upserts) != 1 || sr.upserts[0].UserID != 7 {
		t.Fatalf("upserts = %+v, want one row for user 7", sr.upserts)
	}
	if emailLookups != 0 {
		t.Error("fell through to the email lookup")
	}
}

func TestWebhookUnknownCustomer(t *testing.T) {
	sr := &fakeSubscriptionRepo{}
	u := &fakeUserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*models.User, bool, error) {
			return nil, false, nil
		},
	}
	svc := NewBillingService(config.Config{}, u, sr)

	event := subscriptionEvent("subscription_updated", "sub-404", nil)
	if err := svc.HandleWebhook(context.Background(), event); err == nil {
		t.Fatal("expected an error for an unknown customer")
	}
	if len(sr.upserts) != 0 {
		t.Errorf("upserts = %+v, want none", sr.upserts)
	}
}
