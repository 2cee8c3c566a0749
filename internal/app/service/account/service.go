package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/blancosphere/streamvault/internal/models"
	"github.com/blancosphere/streamvault/internal/platform/kv"
	"github.com/blancosphere/streamvault/pkg/logctx"
)

// Manager owns the user:<customer_id> key layout. Every reader and writer
// of subscription records goes through here.
type Manager interface {
	Get(ctx context.Context, customerID string) (*models.UserSubscriptionRecord, error)
	Put(ctx context.Context, customerID string, record *models.UserSubscriptionRecord) error
	// PatchPaymentIDs attaches the payment provider's subscription and
	// customer ids to an existing record. Read-modify-write; a missing
	// record is not an error, there is simply nothing to patch.
	PatchPaymentIDs(ctx context.Context, customerID, subscriptionID, stripeCustomerID string) error
}

type Service struct {
	store kv.Store
	log   *zap.SugaredLogger
}

func NewService(store kv.Store, log *zap.SugaredLogger) Manager {
	return &Service{store: store, log: log}
}

func userKey(customerID string) string { return "user:" + customerID }

func (s *Service) Get(ctx context.Context, customerID string) (*models.UserSubscriptionRecord, error) {
	raw, err := s.store.Get(ctx, userKey(customerID))
	if err != nil {
		return nil, err
	}
	var record models.UserSubscriptionRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("corrupt user record for %s: %w", customerID, err)
	}
	return &record, nil
}

func (s *Service) Put(ctx context.Context, customerID string, record *models.UserSubscriptionRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal user record: %w", err)
	}
	// Durable record: no TTL.
	return s.store.Put(ctx, userKey(customerID), string(raw), 0)
}

func (s *Service) PatchPaymentIDs(ctx context.Context, customerID, subscriptionID, stripeCustomerID string) error {
	record, err := s.Get(ctx, customerID)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			logctx.FromCtx(ctx, s.log).Warnw("no user record to patch", "customer_id", customerID)
			return nil
		}
		return err
	}
	record.SubscriptionID = subscriptionID
	record.StripeCustomerID = stripeCustomerID
	return s.Put(ctx, customerID, record)
}
