package dto

import "time"

type CheckoutRequest struct {
	PriceRef string `json:"price_ref" validate:"max=255"`
}

type CheckoutResponse struct {
	Url string `json:"url"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}

type SubscriptionResponse struct {
	Tier      string     `json:"tier"`
	Status    string     `json:"status"`
	PeriodEnd *time.Time `json:"period_end"`
	Entitled  bool       `json:"entitled"`
}
