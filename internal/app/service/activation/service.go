package activation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/blancosphere/streamvault/internal/app/service/account"
	"github.com/blancosphere/streamvault/internal/app/service/checkout"
	"github.com/blancosphere/streamvault/internal/app/service/eventlog"
	"github.com/blancosphere/streamvault/internal/app/service/mailer"
	"github.com/blancosphere/streamvault/internal/models"
	"github.com/blancosphere/streamvault/internal/platform/kv"
	"github.com/blancosphere/streamvault/internal/platform/panel"
	"github.com/blancosphere/streamvault/pkg/logctx"
	"github.com/blancosphere/streamvault/pkg/types"
)

// ErrActivation is returned when the panel refuses to provision a line or
// hands back an unusable playlist URL.
var ErrActivation = errors.New("Failed to activate subscription")

// Request carries the post-payment redirect's query parameters. Only the
// token is load-bearing; the rest are validated for presence (and the device
// tags against the closed set) so a truncated or tampered redirect fails
// loudly instead of provisioning from a partial intent.
type Request struct {
	SubscriptionLength string
	Region             string
	CustomerID         string
	DeviceTypes        string
	UserEmail          string
	Token              string
}

// Result is the activation outcome shown to the customer.
type Result struct {
	Success    bool      `json:"success"`
	Renewed    bool      `json:"renewed"`
	Message    string    `json:"message"`
	Username   string    `json:"username"`
	ExpiryDate time.Time `json:"expiry_date"`
}

type Manager interface {
	Activate(ctx context.Context, req *Request) (*Result, error)
}

type Service struct {
	checkouts checkout.Manager
	accounts  account.Manager
	panel     panel.Client
	mail      mailer.Manager
	events    *eventlog.Service
	log       *zap.SugaredLogger
	now       func() time.Time
}

func NewService(checkouts checkout.Manager, accounts account.Manager, panelClient panel.Client, mail mailer.Manager, events *eventlog.Service, log *zap.SugaredLogger) Manager {
	return &Service{
		checkouts: checkouts,
		accounts:  accounts,
		panel:     panelClient,
		mail:      mail,
		events:    events,
		log:       log,
		now:       time.Now,
	}
}

// Activate redeems a checkout token and provisions (or renews) the
// customer's line. The consumed intent is the source of truth for what was
// purchased; the redirect parameters it minted are checked but never trusted
// for the order contents.
func (s *Service) Activate(ctx context.Context, req *Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	intent, err := s.checkouts.ConsumeIntent(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	sel := intent.Selection
	log := logctx.FromCtx(ctx, s.log).With("customer_id", sel.CustomerID)

	bouquet, ok := sel.Region.Bouquet()
	if !ok {
		return nil, types.Invalidf("Invalid region: %s", sel.Region)
	}
	if !sel.SubscriptionLength.Valid() {
		return nil, types.Invalidf("Invalid subscription length: %s", sel.SubscriptionLength)
	}

	s.events.Log(ctx, "activation_started", map[string]any{
		"customer_id":        sel.CustomerID,
		"user_email":         sel.UserEmail,
		"region":             sel.Region,
		"subscriptionLength": sel.SubscriptionLength,
		"device_types":       types.DeviceTypeStrings(sel.DeviceTypes),
	})

	existing, err := s.accounts.Get(ctx, sel.CustomerID)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		log.Warnw("existing record lookup failed, treating as new customer", "error", err.Error())
		existing = nil
	}

	now := s.now().UTC()
	var (
		creds   *panel.Credentials
		renewed bool
	)
	if existing != nil && existing.Username != "" && existing.Password != "" {
		creds = &panel.Credentials{Username: existing.Username, Password: existing.Password}
		resp, err := s.panel.RenewM3U(ctx, *creds, sel.SubscriptionLength)
		if err == nil && resp.OK() {
			renewed = true
		} else {
			// A dead line on the panel side is recoverable: fall back
			// to provisioning fresh credentials.
			reason := "panel rejected renewal"
			if err != nil {
				reason = err.Error()
			} else if resp.Message != "" {
				reason = resp.Message
			}
			log.Warnw("renewal failed, provisioning new line", "reason", reason)
			s.events.Log(ctx, "renewal_failed", map[string]any{
				"customer_id": sel.CustomerID,
				"username":    existing.Username,
				"reason":      reason,
			})
			creds = nil
		}
	}

	if creds == nil {
		resp, err := s.panel.CreateM3U(ctx, sel.SubscriptionLength, bouquet)
		if err != nil || !resp.OK() {
			reason := "panel returned failure status"
			if err != nil {
				reason = err.Error()
			} else if resp.Message != "" {
				reason = resp.Message
			}
			log.Errorw("provisioning failed", "reason", reason)
			s.events.Log(ctx, "activation_failed", map[string]any{
				"customer_id": sel.CustomerID,
				"user_email":  sel.UserEmail,
				"reason":      reason,
			})
			return nil, fmt.Errorf("%w: %s", ErrActivation, reason)
		}
		creds, err = panel.ExtractCredentials(resp.URL)
		if err != nil {
			log.Errorw("panel returned unusable playlist url", "error", err.Error())
			s.events.Log(ctx, "credential_extraction_failed", map[string]any{
				"customer_id": sel.CustomerID,
				"user_email":  sel.UserEmail,
				"reason":      err.Error(),
			})
			return nil, fmt.Errorf("%w: %s", ErrActivation, err)
		}
	}

	expiry := sel.SubscriptionLength.ExpiryFrom(now)
	record := &models.UserSubscriptionRecord{
		Username:           creds.Username,
		Password:           creds.Password,
		CreatedAt:          now,
		SubscriptionLength: sel.SubscriptionLength,
		Region:             sel.Region,
		ExpiryDate:         expiry,
		DeviceTypes:        sel.DeviceTypes,
		UserEmail:          sel.UserEmail,
		Status:             types.SubscriptionStatusActive,
		FirstName:          sel.FirstName,
	}
	if existing != nil {
		record.CreatedAt = existing.CreatedAt
		record.SubscriptionID = existing.SubscriptionID
		record.StripeCustomerID = existing.StripeCustomerID
	}
	if renewed {
		record.LastRenewed = &now
	}
	if err := s.accounts.Put(ctx, sel.CustomerID, record); err != nil {
		// Credentials exist on the panel at this point; losing the record
		// is worse than a failed activation page.
		return nil, fmt.Errorf("failed to persist subscription record: %w", err)
	}

	report := s.mail.SendDeviceEmails(ctx, &mailer.DeviceEmailRequest{
		CustomerID: sel.CustomerID,
		To:         sel.UserEmail,
		FirstName:  sel.FirstName,
		Username:   creds.Username,
		Password:   creds.Password,
		Region:     sel.Region,
		Length:     sel.SubscriptionLength,
		Devices:    sel.DeviceTypes,
		IsRenewal:  renewed,
	})

	s.events.Log(ctx, "activation_complete", map[string]any{
		"customer_id":   sel.CustomerID,
		"username":      creds.Username,
		"renewed":       renewed,
		"emails_sent":   report.Sent,
		"emails_failed": report.Failed,
	})

	verb := "activated"
	if renewed {
		verb = "renewed"
	}
	return &Result{
		Success:    true,
		Renewed:    renewed,
		Message:    fmt.Sprintf("Subscription %s! Setup instructions for %d device(s) sent to %s", verb, len(sel.DeviceTypes), sel.UserEmail),
		Username:   creds.Username,
		ExpiryDate: expiry,
	}, nil
}

func validate(req *Request) error {
	required := []struct {
		name  string
		value string
	}{
		{"checkoutToken", req.Token},
		{"subscriptionLength", req.SubscriptionLength},
		{"region", req.Region},
		{"customer_id", req.CustomerID},
		{"device_types", req.DeviceTypes},
		{"user_email", req.UserEmail},
	}
	for _, p := range required {
		if p.value == "" {
			return types.Invalidf("Missing required parameter: %s", p.name)
		}
	}
	if msg := types.ValidateDeviceTypes(types.ParseDeviceTypes(req.DeviceTypes)); msg != "" {
		return types.Invalidf("%s", msg)
	}
	return nil
}
