package panel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	cfgpkg "github.com/blancosphere/streamvault/pkg/config"
	"github.com/blancosphere/streamvault/pkg/types"
)

func TestExtractCredentials(t *testing.T) {
	creds, err := ExtractCredentials("http://iptv.example.com/get.php?username=abc123&password=xyz789&type=m3u_plus&output=ts")
	require.NoError(t, err)
	require.Equal(t, "abc123", creds.Username)
	require.Equal(t, "xyz789", creds.Password)
}

func TestExtractCredentials_MissingFields(t *testing.T) {
	_, err := ExtractCredentials("http://iptv.example.com/get.php?username=abc123")
	require.Error(t, err)

	_, err = ExtractCredentials("http://iptv.example.com/get.php")
	require.Error(t, err)
}

func TestCreateM3U_SendsExpectedQuery(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/api.php", r.URL.Path)
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		_ = json.NewEncoder(w).Encode(Response{
			Status: "true",
			URL:    "http://iptv.example.com/get.php?username=u1&password=p1&type=m3u_plus&output=ts",
		})
	}))
	defer srv.Close()

	cfg := &cfgpkg.Config{}
	cfg.Panel.BaseURL = srv.URL
	cfg.Panel.APIKey = "panel-key"

	resp, err := New(cfg).CreateM3U(context.Background(), types.PlanVoyage, "bouquet_eu")
	require.NoError(t, err)
	require.True(t, resp.OK())

	require.Equal(t, "new", gotQuery["action"])
	require.Equal(t, "m3u", gotQuery["type"])
	require.Equal(t, "6", gotQuery["sub"])
	require.Equal(t, "bouquet_eu", gotQuery["pack"])
	require.Equal(t, "panel-key", gotQuery["api_key"])
}

func TestRenewM3U_SendsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "renew", q.Get("action"))
		require.Equal(t, "u1", q.Get("username"))
		require.Equal(t, "p1", q.Get("password"))
		_ = json.NewEncoder(w).Encode(Response{Status: "true"})
	}))
	defer srv.Close()

	cfg := &cfgpkg.Config{}
	cfg.Panel.BaseURL = srv.URL

	resp, err := New(cfg).RenewM3U(context.Background(), Credentials{Username: "u1", Password: "p1"}, types.PlanLaunch)
	require.NoError(t, err)
	require.True(t, resp.OK())
}

func TestResponseOK_IsCaseInsensitive(t *testing.T) {
	require.True(t, (&Response{Status: "True"}).OK())
	require.False(t, (&Response{Status: "false"}).OK())
}
