package types

import (
	"strconv"
	"time"
)

// SubscriptionLength is the plan duration in months, kept as the string the
// checkout form submits ("1", "3", "6", "12", "24").
type SubscriptionLength string

const (
	PlanLaunch   SubscriptionLength = "1"
	PlanHorizon  SubscriptionLength = "3"
	PlanVoyage   SubscriptionLength = "6"
	PlanOdyssey  SubscriptionLength = "12"
	PlanInfinity SubscriptionLength = "24"
)

func (l SubscriptionLength) Valid() bool {
	switch l {
	case PlanLaunch, PlanHorizon, PlanVoyage, PlanOdyssey, PlanInfinity:
		return true
	}
	return false
}

func (l SubscriptionLength) Months() int {
	n, err := strconv.Atoi(string(l))
	if err != nil {
		return 0
	}
	return n
}

// ExpiryFrom computes the subscription expiry as now + 30*N days. The
// 30-day month is a documented billing approximation, not calendar math.
func (l SubscriptionLength) ExpiryFrom(now time.Time) time.Time {
	return now.Add(time.Duration(l.Months()) * 30 * 24 * time.Hour)
}

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)
