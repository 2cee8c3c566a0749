package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/blancosphere/streamvault/internal/app/service/eventlog"
	"github.com/blancosphere/streamvault/internal/models"
	"github.com/blancosphere/streamvault/internal/platform/kv"
	"github.com/blancosphere/streamvault/internal/platform/payment"
	cfgpkg "github.com/blancosphere/streamvault/pkg/config"
	"github.com/blancosphere/streamvault/pkg/logctx"
	"github.com/blancosphere/streamvault/pkg/tool"
	"github.com/blancosphere/streamvault/pkg/types"
)

// intentTTL bounds how long an unactivated checkout stays redeemable.
const intentTTL = time.Hour

var (
	// ErrInvalidToken covers absent, expired, and already-consumed tokens
	// alike; the caller cannot distinguish them and should not.
	ErrInvalidToken = errors.New("Invalid or expired checkout token")

	// ErrPaymentUpstream is returned when the payment provider rejects or
	// fails the session create call.
	ErrPaymentUpstream = errors.New("Failed to create Stripe checkout session")
)

// Request is the checkout form submission.
type Request struct {
	SubscriptionLength types.SubscriptionLength `json:"subscriptionLength"`
	Region             types.Region             `json:"region"`
	CustomerID         string                   `json:"customer_id"`
	DeviceTypes        DeviceList               `json:"device_types"`
	UserEmail          string                   `json:"user_email"`
	FirstName          string                   `json:"first_name"`
}

// DeviceList accepts either a JSON array of tags or a single comma-joined
// string, which is how the storefront submits multi-selects.
type DeviceList []types.DeviceType

func (d *DeviceList) UnmarshalJSON(b []byte) error {
	var asSlice []types.DeviceType
	if err := json.Unmarshal(b, &asSlice); err == nil {
		*d = asSlice
		return nil
	}
	var asString string
	if err := json.Unmarshal(b, &asString); err != nil {
		return fmt.Errorf("device_types must be an array or comma-joined string")
	}
	*d = types.ParseDeviceTypes(asString)
	return nil
}

// Result is returned to the storefront, which redirects the customer to the
// hosted payment page.
type Result struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

type Manager interface {
	CreateCheckout(ctx context.Context, req *Request) (*Result, error)
	// ConsumeIntent redeems a checkout token exactly once. A second call
	// with the same token returns ErrInvalidToken.
	ConsumeIntent(ctx context.Context, token string) (*models.CheckoutIntent, error)
}

type Service struct {
	store    kv.Store
	payments payment.Client
	events   *eventlog.Service
	cfg      *cfgpkg.Config
	log      *zap.SugaredLogger
}

func NewService(store kv.Store, payments payment.Client, events *eventlog.Service, cfg *cfgpkg.Config, log *zap.SugaredLogger) Manager {
	return &Service{store: store, payments: payments, events: events, cfg: cfg, log: log}
}

func intentKey(token string) string { return "checkout:" + token }

func (s *Service) CreateCheckout(ctx context.Context, req *Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	bouquet, _ := req.Region.Bouquet()
	priceID, ok := s.cfg.PriceForLength(req.SubscriptionLength)
	if !ok {
		return nil, types.Invalidf("Invalid subscription length: %s", req.SubscriptionLength)
	}

	selection := models.SubscriptionSelection{
		SubscriptionLength: req.SubscriptionLength,
		Region:             req.Region,
		CustomerID:         lo.Ternary(req.CustomerID != "", req.CustomerID, tool.GenerateUUIDV7()),
		DeviceTypes:        req.DeviceTypes,
		UserEmail:          req.UserEmail,
		FirstName:          req.FirstName,
	}

	token := tool.GenerateCheckoutToken()
	intent := models.CheckoutIntent{Selection: selection, CreatedAt: time.Now().UTC()}
	raw, err := json.Marshal(intent)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal checkout intent: %w", err)
	}
	if err := s.store.Put(ctx, intentKey(token), string(raw), intentTTL); err != nil {
		return nil, fmt.Errorf("failed to persist checkout intent: %w", err)
	}

	deviceCSV := strings.Join(types.DeviceTypeStrings(selection.DeviceTypes), ",")

	successURL, err := url.Parse(s.cfg.Stripe.SuccessURL)
	if err != nil {
		return nil, fmt.Errorf("invalid success URL configured: %w", err)
	}
	q := successURL.Query()
	q.Set("subscriptionLength", string(selection.SubscriptionLength))
	q.Set("region", string(selection.Region))
	q.Set("customer_id", selection.CustomerID)
	q.Set("device_types", deviceCSV)
	q.Set("user_email", selection.UserEmail)
	q.Set("checkoutToken", token)
	if selection.FirstName != "" {
		q.Set("firstName", selection.FirstName)
	}
	successURL.RawQuery = q.Encode()

	s.events.Log(ctx, "checkout_initiated", map[string]any{
		"customer_id":        selection.CustomerID,
		"user_email":         selection.UserEmail,
		"region":             selection.Region,
		"subscriptionLength": selection.SubscriptionLength,
		"device_types":       types.DeviceTypeStrings(selection.DeviceTypes),
	})

	session, err := s.payments.CreateSubscriptionSession(ctx, &payment.SessionRequest{
		PriceID:       priceID,
		SuccessURL:    successURL.String(),
		CancelURL:     s.cfg.Stripe.CancelURL,
		CustomerEmail: selection.UserEmail,
		Metadata: map[string]string{
			"subscriptionLength": string(selection.SubscriptionLength),
			"region":             string(selection.Region),
			"customer_id":        selection.CustomerID,
			"device_types":       deviceCSV,
			"bouquet":            bouquet,
			"checkout_token":     token,
		},
	})
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("payment session create failed", "error", err.Error())
		s.events.Log(ctx, "checkout_error", map[string]any{
			"customer_id": selection.CustomerID,
			"error":       err.Error(),
		})
		return nil, fmt.Errorf("%w: %s", ErrPaymentUpstream, err)
	}

	s.events.Log(ctx, "checkout_created", map[string]any{
		"customer_id": selection.CustomerID,
		"session_id":  session.ID,
	})
	return &Result{URL: session.URL, SessionID: session.ID}, nil
}

func (s *Service) ConsumeIntent(ctx context.Context, token string) (*models.CheckoutIntent, error) {
	raw, err := s.store.GetDel(ctx, intentKey(token))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to read checkout intent: %w", err)
	}
	var intent models.CheckoutIntent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		return nil, fmt.Errorf("corrupt checkout intent: %w", err)
	}
	return &intent, nil
}

// validate applies the checkout input rules in order: required fields,
// device types, email shape, region.
func validate(req *Request) error {
	required := []struct {
		name  string
		value string
	}{
		{"subscriptionLength", string(req.SubscriptionLength)},
		{"region", string(req.Region)},
		{"user_email", req.UserEmail},
	}
	for _, p := range required {
		if p.value == "" {
			return types.Invalidf("Missing required parameter: %s", p.name)
		}
	}
	if msg := types.ValidateDeviceTypes(req.DeviceTypes); msg != "" {
		return types.Invalidf("%s", msg)
	}
	if !types.ValidEmail(req.UserEmail) {
		return types.Invalidf("Invalid email format")
	}
	if !req.Region.Valid() {
		return types.Invalidf("Invalid region: %s", req.Region)
	}
	return nil
}
