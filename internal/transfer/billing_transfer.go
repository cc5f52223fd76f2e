package transfer

import "time"

// LemonSqueezy JSON:API payloads, trimmed to the fields linkedbud reads.

type CheckoutRequest struct {
	Data CheckoutData `json:"data"`
}

type CheckoutData struct {
	Type          string                `json:"type"`
	Attributes    CheckoutAttributes    `json:"attributes"`
	Relationships CheckoutRelationships `json:"relationships"`
}

type CheckoutAttributes struct {
	CheckoutData CheckoutCustomData `json:"checkout_data"`
}

type CheckoutCustomData struct {
	Email  string            `json:"email,omitempty"`
	Custom map[string]string `json:"custom,omitempty"`
}

type CheckoutRelationships struct {
	Store   RelationshipRef `json:"store"`
	Variant RelationshipRef `json:"variant"`
}

type RelationshipRef struct {
	Data RelationshipData `json:"data"`
}

type RelationshipData struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type CheckoutResponse struct {
	Data struct {
		Attributes struct {
			URL string `json:"url"`
		} `json:"attributes"`
	} `json:"data"`
}

// SubscriptionEvent is the webhook body for subscription_* events.
type SubscriptionEvent struct {
	Meta struct {
		EventName  string            `json:"event_name"`
		CustomData map[string]string `json:"custom_data"`
	} `json:"meta"`
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Status    string     `json:"status"`
			UserEmail string     `json:"user_email"`
			RenewsAt  *time.Time `json:"renews_at"`
			EndsAt    *time.Time `json:"ends_at"`
		} `json:"attributes"`
	} `json:"data"`
}
