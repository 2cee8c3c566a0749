package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"github.com/blancosphere/streamvault/internal/models"
	"github.com/blancosphere/streamvault/internal/platform/kv"
	"github.com/blancosphere/streamvault/internal/platform/payment"
	"github.com/blancosphere/streamvault/pkg/types"
)

type stubAccountMgr struct {
	records map[string]*models.UserSubscriptionRecord
}

func (s *stubAccountMgr) Get(_ context.Context, id string) (*models.UserSubscriptionRecord, error) {
	r, ok := s.records[id]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return r, nil
}

func (s *stubAccountMgr) Put(_ context.Context, _ string, _ *models.UserSubscriptionRecord) error {
	panic("not used")
}

func (s *stubAccountMgr) PatchPaymentIDs(_ context.Context, _, _, _ string) error {
	panic("not used")
}

func getStatus(t *testing.T, mgr *stubAccountMgr, query string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterStatusRoutes(r, mgr)

	req := httptest.NewRequest(http.MethodGet, "/check-status"+query, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestApiCheckStatus_MissingCustomerID(t *testing.T) {
	w := getStatus(t, &stubAccountMgr{}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"error":"Missing customer_id parameter"}`, w.Body.String())
}

func TestApiCheckStatus_NotFound(t *testing.T) {
	w := getStatus(t, &stubAccountMgr{records: map[string]*models.UserSubscriptionRecord{}}, "?customer_id=nope")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"not_found"`)
	require.Contains(t, w.Body.String(), "No subscription found for this customer ID")
}

func TestApiCheckStatus_RedactsPassword(t *testing.T) {
	mgr := &stubAccountMgr{records: map[string]*models.UserSubscriptionRecord{
		"cust-1": {
			Username:           "vault_user",
			Password:           "super-secret",
			SubscriptionLength: types.PlanOdyssey,
			Region:             types.RegionGlobal,
			ExpiryDate:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			Status:             types.SubscriptionStatusActive,
			DeviceTypes:        []types.DeviceType{types.DeviceIOS},
		},
	}}

	w := getStatus(t, mgr, "?customer_id=cust-1")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"success"`)
	require.Contains(t, w.Body.String(), "vault_user")
	require.NotContains(t, w.Body.String(), "super-secret")
}

type stubSessionLookup struct {
	session *payment.Session
}

func (s *stubSessionLookup) CreateSubscriptionSession(_ context.Context, _ *payment.SessionRequest) (*payment.Session, error) {
	panic("not used")
}

func (s *stubSessionLookup) GetSession(_ context.Context, _ string) (*payment.Session, error) {
	return s.session, nil
}

func (s *stubSessionLookup) VerifyWebhook(_ []byte, _ string) (*stripe.Event, error) {
	panic("not used")
}

func TestApiLookupSession_RecoversSelection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterSessionLookupRoutes(r, &stubSessionLookup{session: &payment.Session{
		ID:             "cs_1",
		SubscriptionID: "sub_1",
		CustomerEmail:  "sam@example.com",
		Metadata: map[string]string{
			"region":             "asia",
			"subscriptionLength": "6",
			"device_types":       "smart_tv,ios",
			"customer_id":        "cust-1",
		},
	}})

	req := httptest.NewRequest(http.MethodGet, "/lookup-session?id=cs_1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, `"sessionId":"cs_1"`)
	require.Contains(t, body, `"region":"asia"`)
	require.Contains(t, body, "smart_tv")
	require.Contains(t, body, `"customerId":"cust-1"`)
}

func TestApiLookupSession_MissingID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterSessionLookupRoutes(r, &stubSessionLookup{})

	req := httptest.NewRequest(http.MethodGet, "/lookup-session", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"error":"Missing session ID"}`, w.Body.String())
}
