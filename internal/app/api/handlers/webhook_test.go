package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type stubProcessor struct {
	payload []byte
	sig     string
	err     error
}

func (s *stubProcessor) Process(_ context.Context, payload []byte, sigHeader string) error {
	s.payload = payload
	s.sig = sigHeader
	return s.err
}

func postWebhook(t *testing.T, proc *stubProcessor, sig string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterWebhookRoutes(r, proc)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte(`{"id":"evt_1"}`)))
	if sig != "" {
		req.Header.Set("stripe-signature", sig)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestApiStripeWebhook_MissingSignatureIs400(t *testing.T) {
	w := postWebhook(t, &stubProcessor{}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"error":"Missing stripe-signature header"}`, w.Body.String())
}

func TestApiStripeWebhook_BadSignatureIs403(t *testing.T) {
	w := postWebhook(t, &stubProcessor{err: errors.New("bad signature")}, "t=1,v1=bad")
	require.Equal(t, http.StatusForbidden, w.Code)
	require.JSONEq(t, `{"error":"Webhook signature verification failed"}`, w.Body.String())
}

func TestApiStripeWebhook_AcknowledgesVerifiedEvents(t *testing.T) {
	proc := &stubProcessor{}
	w := postWebhook(t, proc, "t=1,v1=good")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Webhook received", w.Body.String())
	require.Equal(t, `{"id":"evt_1"}`, string(proc.payload))
	require.Equal(t, "t=1,v1=good", proc.sig)
}
