package webhookflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	"github.com/blancosphere/streamvault/internal/app/service/account"
	"github.com/blancosphere/streamvault/internal/app/service/eventlog"
	"github.com/blancosphere/streamvault/internal/app/service/mailer"
	"github.com/blancosphere/streamvault/internal/platform/payment"
	"github.com/blancosphere/streamvault/pkg/logctx"
)

// Processor verifies and dispatches payment provider webhook events.
// Activation itself is driven by the customer's post-payment redirect; the
// webhook only attaches payment linkage and reacts to billing lifecycle
// events, so per-event failures are logged rather than surfaced: a 2xx is
// the right answer once the signature checks out.
type Processor interface {
	Process(ctx context.Context, payload []byte, sigHeader string) error
}

type Service struct {
	payments payment.Client
	accounts account.Manager
	mail     mailer.Manager
	events   *eventlog.Service
	log      *zap.SugaredLogger
}

func NewService(payments payment.Client, accounts account.Manager, mail mailer.Manager, events *eventlog.Service, log *zap.SugaredLogger) Processor {
	return &Service{payments: payments, accounts: accounts, mail: mail, events: events, log: log}
}

// Process authenticates the payload against the endpoint secret and routes
// the event. The only error it returns is a failed signature check.
func (s *Service) Process(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := s.payments.VerifyWebhook(payload, sigHeader)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("webhook signature verification failed", "error", err.Error())
		return fmt.Errorf("webhook signature verification failed: %w", err)
	}

	log := logctx.FromCtx(ctx, s.log).With("event_id", event.ID, "event_type", event.Type)
	log.Infow("webhook event received")

	switch event.Type {
	case "checkout.session.completed":
		s.handleCheckoutCompleted(ctx, event, log)
	case "invoice.payment_failed":
		s.handlePaymentFailed(ctx, event, log)
	case "customer.subscription.created",
		"customer.subscription.deleted",
		"invoice.payment_succeeded",
		"payment_intent.succeeded":
		s.events.Log(ctx, "webhook_"+string(event.Type), map[string]any{
			"event_id": event.ID,
		})
	default:
		log.Debugw("ignoring unhandled webhook event")
		s.events.Log(ctx, "webhook_unhandled", map[string]any{
			"event_id":   event.ID,
			"event_type": event.Type,
		})
	}
	return nil
}

// handleCheckoutCompleted links the provider's subscription and customer
// ids to the user record created by activation. The record may not exist
// yet when the webhook races the redirect; PatchPaymentIDs tolerates that.
func (s *Service) handleCheckoutCompleted(ctx context.Context, event *stripe.Event, log *zap.SugaredLogger) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Errorw("failed to parse checkout session payload", "error", err.Error())
		return
	}
	customerID := session.Metadata["customer_id"]
	if customerID == "" {
		log.Warnw("checkout session completed without customer_id metadata", "session_id", session.ID)
		return
	}

	var subscriptionID, stripeCustomerID string
	if session.Subscription != nil {
		subscriptionID = session.Subscription.ID
	}
	if session.Customer != nil {
		stripeCustomerID = session.Customer.ID
	}
	if err := s.accounts.PatchPaymentIDs(ctx, customerID, subscriptionID, stripeCustomerID); err != nil {
		log.Errorw("failed to patch payment ids", "customer_id", customerID, "error", err.Error())
	}

	s.events.Log(ctx, "checkout_completed", map[string]any{
		"customer_id":        customerID,
		"session_id":         session.ID,
		"subscription_id":    subscriptionID,
		"stripe_customer_id": stripeCustomerID,
	})
}

func (s *Service) handlePaymentFailed(ctx context.Context, event *stripe.Event, log *zap.SugaredLogger) {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		log.Errorw("failed to parse invoice payload", "error", err.Error())
		return
	}

	s.events.Log(ctx, "payment_failed", map[string]any{
		"event_id":   event.ID,
		"invoice_id": invoice.ID,
		"user_email": invoice.CustomerEmail,
		"amount_due": invoice.AmountDue,
		"currency":   invoice.Currency,
	})

	if invoice.CustomerEmail == "" {
		log.Warnw("payment failed invoice has no customer email", "invoice_id", invoice.ID)
		return
	}
	if err := s.mail.SendPaymentFailureNotice(ctx, invoice.CustomerEmail); err != nil {
		log.Errorw("failed to send payment failure notice", "error", err.Error())
	}
}
