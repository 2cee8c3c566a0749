package models

import (
	"time"

	"github.com/blancosphere/streamvault/pkg/types"
)

// SubscriptionSelection describes the choices a customer made at checkout.
// It travels from the checkout form into the CheckoutIntent, the payment
// session metadata, and the activation query string.
type SubscriptionSelection struct {
	SubscriptionLength types.SubscriptionLength `json:"subscriptionLength"`
	Region             types.Region             `json:"region"`
	CustomerID         string                   `json:"customer_id"`
	DeviceTypes        []types.DeviceType       `json:"device_types"`
	UserEmail          string                   `json:"user_email"`
	FirstName          string                   `json:"first_name,omitempty"`
}

// CheckoutIntent is the ephemeral record stored under checkout:<token>.
// It expires after one hour and is consumed exactly once by activation.
type CheckoutIntent struct {
	Selection SubscriptionSelection `json:"selection"`
	CreatedAt time.Time             `json:"created_at"`
}
