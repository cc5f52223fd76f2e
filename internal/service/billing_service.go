package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	config "github.com/linkedbud/linkedbud/configs"
	"github.com/linkedbud/linkedbud/internal/models"
	"github.com/linkedbud/linkedbud/internal/repository"
	"github.com/linkedbud/linkedbud/internal/transfer"
)

const lemonSqueezyBaseURL = "https://api.lemonsqueezy.com/v1"

type BillingService interface {
	CreateCheckout(ctx context.Context, userID int64, email string) (string, error)
	CancelSubscription(ctx context.Context, userID int64) error
	HandleWebhook(ctx context.Context, event *transfer.SubscriptionEvent) error
	VerifySignature(body []byte, signature string) bool
}

type billingService struct {
	cfg config.Config
	u   repository.UserRepository
	sr  repository.SubscriptionRepository
}

func NewBillingService(cfg config.Config, u repository.UserRepository, sr repository.SubscriptionRepository) BillingService {
	return &billingService{
		cfg: cfg,
		u:   u,
		sr:  sr,
	}
}

// VerifySignature checks the webhook's X-Signature header, an HMAC-SHA256
// of the raw body under the store's signing secret.
func (s *billingService) VerifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.cfg.LemonSqueezySigningSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *billingService) CreateCheckout(ctx context.Context, userID int64, email string) (string, error) {
	checkoutRequest := transfer.CheckoutRequest{
		Data: transfer.CheckoutData{
			Type: "checkouts",
			Attributes: transfer.CheckoutAttributes{
				CheckoutData: transfer.CheckoutCustomData{
					Email: email,
					Custom: map[string]string{
						"user_id": strconv.FormatInt(userID, 10),
					},
				},
			},
			Relationships: transfer.CheckoutRelationships{
				Store: transfer.RelationshipRef{
					Data: transfer.RelationshipData{Type: "stores", ID: s.cfg.LemonSqueezyStoreID},
				},
				Variant: transfer.RelationshipRef{
					Data: transfer.RelationshipData{Type: "variants", ID: s.cfg.LemonSqueezyVariantID},
				},
			},
		},
	}

	jsonData, err := json.Marshal(checkoutRequest)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", lemonSqueezyBaseURL+"/checkouts", bytes.NewBuffer(jsonData))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.LemonSqueezyAPIKey)
	req.Header.Set("Accept", "application/vnd.api+json")
	req.Header.Set("Content-Type", "application/vnd.api+json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("Unable to create checkout session")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		slog.Info(fmt.Sprintf("checkout creation returned %d", resp.StatusCode))
		return "", fmt.Errorf("Unable to create checkout session")
	}

	var checkoutResponse transfer.CheckoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&checkoutResponse); err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("Unable to create checkout session")
	}

	return checkoutResponse.Data.Attributes.URL, nil
}

// CancelSubscription cancels the user's subscription at the provider and
// cascades to any extra-seat sub-subscriptions hanging off it. Provider
// error detail stays in the logs; callers get a generic message.
func (s *billingService) CancelSubscription(ctx context.Context, userID int64) error {
	subscription, err := s.sr.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("Unable to process cancellation request")
	}
	if subscription == nil {
		err = errors.New("no subscription found for user")
		slog.Info(err.Error())
		return err
	}

	seats, err := s.sr.ListByParentID(ctx, subscription.SubscriptionID)
	if err != nil {
		return fmt.Errorf("Unable to process cancellation request")
	}

	for _, seat := range seats {
		if err := s.cancelRemote(ctx, seat.SubscriptionID); err != nil {
			slog.Info(fmt.Sprintf("cancelling seat subscription %s failed: %v", seat.SubscriptionID, err))
			return fmt.Errorf("Unable to process cancellation request")
		}
		if err := s.sr.UpdateStatus(ctx, seat.SubscriptionID, "cancelled"); err != nil {
			return fmt.Errorf("Unable to process cancellation request")
		}
	}

	if err := s.cancelRemote(ctx, subscription.SubscriptionID); err != nil {
		slog.Info(fmt.Sprintf("cancelling subscription %s failed: %v", subscription.SubscriptionID, err))
		return fmt.Errorf("Unable to process cancellation request")
	}

	return s.sr.UpdateStatus(ctx, subscription.SubscriptionID, "cancelled")
}

func (s *billingService) cancelRemote(ctx context.Context, subscriptionID string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", fmt.Sprintf("%s/subscriptions/%s", lemonSqueezyBaseURL, subscriptionID), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.LemonSqueezyAPIKey)
	req.Header.Set("Accept", "application/vnd.api+json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("subscription cancellation returned status %d", resp.StatusCode)
	}
	return nil
}

// HandleWebhook syncs a subscription_* event into the subscriptions table.
// Unknown event names are ignored.
func (s *billingService) HandleWebhook(ctx context.Context, event *transfer.SubscriptionEvent) error {
	switch event.Meta.EventName {
	case "subscription_created", "subscription_updated", "subscription_resumed",
		"subscription_cancelled", "subscription_expired", "subscription_payment_success":
	default:
		return nil
	}

	userID, err := s.resolveUser(ctx, event)
	if err != nil {
		return err
	}

	subscription := models.Subscription{
		UserID:               userID,
		SubscriptionID:       event.Data.ID,
		ParentSubscriptionID: event.Meta.CustomData["parent_subscription_id"],
		Status:               event.Data.Attributes.Status,
	}
	if event.Data.Attributes.RenewsAt != nil {
		subscription.RenewsAt = *event.Data.Attributes.RenewsAt
	}
	if event.Data.Attributes.EndsAt != nil {
		subscription.EndsAt = *event.Data.Attributes.EndsAt
	}

	return s.sr.Upsert(ctx, &subscription)
}

func (s *billingService) resolveUser(ctx context.Context, event *transfer.SubscriptionEvent) (int64, error) {
	if raw, ok := event.Meta.CustomData["user_id"]; ok {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err == nil && userID > 0 {
			return userID, nil
		}
	}

	// Renewal and cancellation webhooks can arrive without custom data.
	// A previously stored row for the same subscription id names the owner.
	if existing, err := s.sr.GetBySubscriptionID(ctx, event.Data.ID); err == nil && existing != nil {
		return existing.UserID, nil
	}

	user, isExist, err := s.u.GetByEmail(ctx, event.Data.Attributes.UserEmail)
	if err != nil {
		return 0, err
	}
	if !isExist {
		err = errors.New("webhook references an unknown customer")
		slog.Info(err.Error())
		return 0, err
	}
	return user.ID, nil
}
