package models

import "time"

// Subscription mirrors a LemonSqueezy subscription. Extra-seat add-ons are
// stored as their own rows pointing at the parent via ParentSubscriptionID,
// so cancelling a parent cascades to its seats.
type Subscription struct {
	ID                   int64     `db:"id" json:"id"`
	UserID               int64     `db:"user_id" json:"user_id"`
	SubscriptionID       string    `db:"subscription_id" json:"subscription_id"`
	ParentSubscriptionID string    `db:"parent_subscription_id" json:"parent_subscription_id"`
	Status               string    `db:"status" json:"status"`
	RenewsAt             time.Time `db:"renews_at" json:"renews_at"`
	EndsAt               time.Time `db:"ends_at" json:"ends_at"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}
