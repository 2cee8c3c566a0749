package activation

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/blancosphere/streamvault/internal/app/service/checkout"
	"github.com/blancosphere/streamvault/internal/app/service/eventlog"
	"github.com/blancosphere/streamvault/internal/app/service/mailer"
	"github.com/blancosphere/streamvault/internal/models"
	"github.com/blancosphere/streamvault/internal/platform/kv"
	"github.com/blancosphere/streamvault/internal/platform/panel"
	"github.com/blancosphere/streamvault/pkg/types"
)

type memStore struct {
	data map[string]string
}

func newMemStore() *memStore { return &memStore{data: map[string]string{}} }

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", kv.ErrNotFound
	}
	return v, nil
}

func (m *memStore) GetDel(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", kv.ErrNotFound
	}
	delete(m.data, key)
	return v, nil
}

func (m *memStore) Put(_ context.Context, key, value string, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

type stubCheckouts struct {
	intent *models.CheckoutIntent
}

func (s *stubCheckouts) CreateCheckout(_ context.Context, _ *checkout.Request) (*checkout.Result, error) {
	panic("not used")
}

func (s *stubCheckouts) ConsumeIntent(_ context.Context, token string) (*models.CheckoutIntent, error) {
	if token != "good-token" || s.intent == nil {
		return nil, checkout.ErrInvalidToken
	}
	out := s.intent
	s.intent = nil
	return out, nil
}

type stubAccounts struct {
	records map[string]*models.UserSubscriptionRecord
}

func (s *stubAccounts) Get(_ context.Context, id string) (*models.UserSubscriptionRecord, error) {
	r, ok := s.records[id]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return r, nil
}

func (s *stubAccounts) Put(_ context.Context, id string, r *models.UserSubscriptionRecord) error {
	s.records[id] = r
	return nil
}

func (s *stubAccounts) PatchPaymentIDs(_ context.Context, _, _, _ string) error {
	panic("not used")
}

type stubPanel struct {
	renewOK     bool
	renewCalled bool
	createOK    bool
	createURL   string
}

func (s *stubPanel) CreateM3U(_ context.Context, _ types.SubscriptionLength, _ string) (*panel.Response, error) {
	if !s.createOK {
		return &panel.Response{Status: "false", Message: "no credits"}, nil
	}
	return &panel.Response{Status: "true", URL: s.createURL}, nil
}

func (s *stubPanel) RenewM3U(_ context.Context, _ panel.Credentials, _ types.SubscriptionLength) (*panel.Response, error) {
	s.renewCalled = true
	if !s.renewOK {
		return &panel.Response{Status: "false", Message: "line expired"}, nil
	}
	return &panel.Response{Status: "true"}, nil
}

type stubMailer struct {
	lastReq *mailer.DeviceEmailRequest
}

func (s *stubMailer) SendDeviceEmails(_ context.Context, req *mailer.DeviceEmailRequest) *mailer.SendReport {
	s.lastReq = req
	return &mailer.SendReport{Sent: len(req.Devices)}
}

func (s *stubMailer) SendPaymentFailureNotice(_ context.Context, _ string) error {
	panic("not used")
}

type fixture struct {
	svc      Manager
	accounts *stubAccounts
	panel    *stubPanel
	mail     *stubMailer
	events   *memStore
}

func newFixture(intent *models.CheckoutIntent) *fixture {
	log := zap.NewNop().Sugar()
	f := &fixture{
		accounts: &stubAccounts{records: map[string]*models.UserSubscriptionRecord{}},
		panel: &stubPanel{
			createOK:  true,
			createURL: "http://iptv.example.com/get.php?username=new_user&password=new_pass&type=m3u_plus&output=ts",
		},
		mail:   &stubMailer{},
		events: newMemStore(),
	}
	f.svc = NewService(&stubCheckouts{intent: intent}, f.accounts, f.panel, f.mail, eventlog.New(f.events, nil, log), log)
	return f
}

// loggedEvent reports whether an event of the given type was recorded.
func (f *fixture) loggedEvent(eventType string) bool {
	for key := range f.events.data {
		if strings.HasPrefix(key, "log:"+eventType+":") {
			return true
		}
	}
	return false
}

func sampleIntent() *models.CheckoutIntent {
	return &models.CheckoutIntent{
		Selection: models.SubscriptionSelection{
			SubscriptionLength: types.PlanHorizon,
			Region:             types.RegionAsia,
			CustomerID:         "cust-1",
			DeviceTypes:        []types.DeviceType{types.DeviceSmartTV, types.DeviceIOS},
			UserEmail:          "sam@example.com",
			FirstName:          "Sam",
		},
		CreatedAt: time.Now().UTC(),
	}
}

func validActivationRequest() *Request {
	return &Request{
		SubscriptionLength: "3",
		Region:             "asia",
		CustomerID:         "cust-1",
		DeviceTypes:        "smart_tv,ios",
		UserEmail:          "sam@example.com",
		Token:              "good-token",
	}
}

func TestActivate_NewCustomer(t *testing.T) {
	f := newFixture(sampleIntent())

	res, err := f.svc.Activate(context.Background(), validActivationRequest())
	require.NoError(t, err)
	require.True(t, res.Success)
	require.False(t, res.Renewed)
	require.Equal(t, "new_user", res.Username)
	require.Contains(t, res.Message, "2 device(s)")
	require.Contains(t, res.Message, "sam@example.com")

	record := f.accounts.records["cust-1"]
	require.NotNil(t, record)
	require.Equal(t, "new_user", record.Username)
	require.Equal(t, "new_pass", record.Password)
	require.Equal(t, types.SubscriptionStatusActive, record.Status)
	require.Nil(t, record.LastRenewed)

	require.NotNil(t, f.mail.lastReq)
	require.False(t, f.mail.lastReq.IsRenewal)
	require.Len(t, f.mail.lastReq.Devices, 2)
}

func TestActivate_InvalidToken(t *testing.T) {
	f := newFixture(sampleIntent())
	req := validActivationRequest()
	req.Token = "bogus"

	_, err := f.svc.Activate(context.Background(), req)
	require.ErrorIs(t, err, checkout.ErrInvalidToken)
}

func TestActivate_TokenIsSingleUse(t *testing.T) {
	f := newFixture(sampleIntent())

	_, err := f.svc.Activate(context.Background(), validActivationRequest())
	require.NoError(t, err)

	_, err = f.svc.Activate(context.Background(), validActivationRequest())
	require.ErrorIs(t, err, checkout.ErrInvalidToken)
}

func TestActivate_MissingParameter(t *testing.T) {
	f := newFixture(sampleIntent())
	req := validActivationRequest()
	req.UserEmail = ""

	_, err := f.svc.Activate(context.Background(), req)
	var ve *types.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "Missing required parameter: user_email", ve.Msg)
}

func TestActivate_RejectsUnknownDeviceTag(t *testing.T) {
	f := newFixture(sampleIntent())
	req := validActivationRequest()
	req.DeviceTypes = "smart_tv,gameboy"

	_, err := f.svc.Activate(context.Background(), req)
	var ve *types.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "Unsupported device type(s): gameboy", ve.Msg)

	// rejected before the token is touched
	res, err := f.svc.Activate(context.Background(), validActivationRequest())
	require.NoError(t, err)
	require.True(t, res.Success)
}

func TestActivate_RenewalKeepsCredentials(t *testing.T) {
	f := newFixture(sampleIntent())
	f.panel.renewOK = true
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.accounts.records["cust-1"] = &models.UserSubscriptionRecord{
		Username:         "old_user",
		Password:         "old_pass",
		CreatedAt:        created,
		SubscriptionID:   "sub_1",
		StripeCustomerID: "cus_1",
	}

	res, err := f.svc.Activate(context.Background(), validActivationRequest())
	require.NoError(t, err)
	require.True(t, res.Renewed)
	require.Equal(t, "old_user", res.Username)

	record := f.accounts.records["cust-1"]
	require.Equal(t, "old_user", record.Username)
	require.Equal(t, created, record.CreatedAt)
	require.Equal(t, "sub_1", record.SubscriptionID)
	require.Equal(t, "cus_1", record.StripeCustomerID)
	require.NotNil(t, record.LastRenewed)
	require.True(t, f.mail.lastReq.IsRenewal)
}

func TestActivate_RenewalFailureFallsBackToCreate(t *testing.T) {
	f := newFixture(sampleIntent())
	f.panel.renewOK = false
	f.accounts.records["cust-1"] = &models.UserSubscriptionRecord{
		Username: "old_user",
		Password: "old_pass",
	}

	res, err := f.svc.Activate(context.Background(), validActivationRequest())
	require.NoError(t, err)
	require.True(t, f.panel.renewCalled)
	require.False(t, res.Renewed)
	require.Equal(t, "new_user", res.Username)
	require.Equal(t, "new_pass", f.accounts.records["cust-1"].Password)
}

func TestActivate_ProvisioningFailure(t *testing.T) {
	f := newFixture(sampleIntent())
	f.panel.createOK = false

	_, err := f.svc.Activate(context.Background(), validActivationRequest())
	require.ErrorIs(t, err, ErrActivation)
	require.Nil(t, f.accounts.records["cust-1"])
	require.Nil(t, f.mail.lastReq)
	require.True(t, f.loggedEvent("activation_failed"))
	require.False(t, f.loggedEvent("credential_extraction_failed"))
}

func TestActivate_UnusablePlaylistURL(t *testing.T) {
	f := newFixture(sampleIntent())
	f.panel.createURL = "http://iptv.example.com/get.php?username=only_user"

	_, err := f.svc.Activate(context.Background(), validActivationRequest())
	require.ErrorIs(t, err, ErrActivation)
	// distinct diagnostic from a panel refusal
	require.True(t, f.loggedEvent("credential_extraction_failed"))
	require.False(t, f.loggedEvent("activation_failed"))
}

func TestActivate_ExpiryMatchesPlanLength(t *testing.T) {
	f := newFixture(sampleIntent())

	before := time.Now().UTC()
	res, err := f.svc.Activate(context.Background(), validActivationRequest())
	require.NoError(t, err)

	want := before.Add(3 * 30 * 24 * time.Hour)
	require.WithinDuration(t, want, res.ExpiryDate, 5*time.Second,
		fmt.Sprintf("expiry %s not ~90 days out", res.ExpiryDate))
}
