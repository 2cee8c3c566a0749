package models

import (
	"time"

	"github.com/blancosphere/streamvault/pkg/types"
)

// UserSubscriptionRecord is the durable record stored under
// user:<customer_id>. Provisioning overwrites it wholesale; the webhook's
// checkout-completed arm patches the payment linkage fields in place.
type UserSubscriptionRecord struct {
	Username           string                   `json:"username"`
	Password           string                   `json:"password"`
	CreatedAt          time.Time                `json:"created_at"`
	LastRenewed        *time.Time               `json:"last_renewed,omitempty"`
	SubscriptionLength types.SubscriptionLength `json:"subscriptionLength"`
	Region             types.Region             `json:"region"`
	ExpiryDate         time.Time                `json:"expiry_date"`
	DeviceTypes        []types.DeviceType       `json:"device_types"`
	UserEmail          string                   `json:"user_email"`
	SubscriptionID     string                   `json:"subscription_id,omitempty"`
	StripeCustomerID   string                   `json:"stripe_customer_id,omitempty"`
	Status             types.SubscriptionStatus `json:"status"`
	FirstName          string                   `json:"first_name,omitempty"`
}

// Redacted strips the password for status responses.
func (u *UserSubscriptionRecord) Redacted() map[string]any {
	return map[string]any{
		"username":           u.Username,
		"region":             u.Region,
		"subscriptionLength": u.SubscriptionLength,
		"expiry_date":        u.ExpiryDate,
		"status":             u.Status,
		"device_types":       u.DeviceTypes,
		"created_at":         u.CreatedAt,
		"last_renewed":       u.LastRenewed,
	}
}
