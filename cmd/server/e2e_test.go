package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/go-site-directory/pkg/app"
	"github.com/wadjakorntonsri/go-site-directory/pkg/config"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/services"
)

func TestIntegration(t *testing.T) {
	cfg := &config.Config{
		DatabaseURL:       "file:e2edb?mode=memory&cache=shared",
		AppEnv:            "test",
		JWTSecret:         "e2e-secret",
		SessionTTL:        time.Hour,
		ProtectedPrefixes: []string{"/admin", "/api/admin"},
		AuthPrefixes:      []string{"/admin/login", "/api/admin/login"},
		LoginPath:         "/admin/login",
		LandingPath:       "/admin/dashboard",
		RootPath:          "/",
		ReportTimezone:    "UTC",
		IngestTimeout:     time.Second,
	}

	// 1. Setup app on an in-memory database
	application, err := app.New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer application.Store.Close()

	auth := services.NewAuthService(application.Store, services.SystemClock{})
	_, err = auth.CreateUser(context.Background(), "admin@example.com", "Admin", "secret123", domain.RoleAdmin)
	require.NoError(t, err)

	server := httptest.NewServer(application.Handler)
	defer server.Close()

	client := server.Client()
	// Don't follow redirects so status codes can be checked
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	send := func(method, path string, payload any, cookie *http.Cookie) *http.Response {
		t.Helper()
		var body io.Reader
		if payload != nil {
			b, err := json.Marshal(payload)
			require.NoError(t, err)
			body = bytes.NewReader(b)
		}
		req, err := http.NewRequest(method, server.URL+path, body)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		if cookie != nil {
			req.AddCookie(cookie)
		}
		resp, err := client.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	// TEST 1: Dashboard requires a session
	resp := send("GET", "/admin/dashboard", nil, nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/login?redirect=%2Fadmin%2Fdashboard", resp.Header.Get("Location"))

	// TEST 2: Login
	resp = send("POST", "/api/admin/login", map[string]string{"email": "admin@example.com", "password": "secret123"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "session" {
			session = c
		}
	}
	require.NotNil(t, session)

	// TEST 3: Create category and site
	resp = send("POST", "/api/admin/categories", map[string]any{"name": "Search", "slug": "search"}, session)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var category domain.Category
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&category))

	resp = send("POST", "/api/admin/sites", map[string]any{
		"categoryId":  category.ID,
		"name":        "Example",
		"url":         "https://example.com",
		"isPublished": true,
	}, session)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var site domain.Site
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&site))

	// TEST 4: Beacon visit and click-through
	resp = send("POST", "/api/visit", map[string]string{"siteId": site.ID}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = send("GET", "/go/"+site.ID, nil, nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://example.com", resp.Header.Get("Location"))

	// The click-through visit is written in the background
	require.Eventually(t, func() bool {
		n, err := application.Store.CountVisits(context.Background())
		return err == nil && n == 2
	}, 2*time.Second, 10*time.Millisecond)

	// TEST 5: Dashboard stats
	resp = send("GET", "/api/admin/stats/frequency?days=7", nil, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var freq struct {
		Frequency []domain.DailyBucket `json:"frequency"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&freq))
	require.Len(t, freq.Frequency, 7)
	assert.Equal(t, int64(2), freq.Frequency[6].Count)

	resp = send("GET", "/api/admin/stats/users", nil, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var visitors struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&visitors))
	assert.Equal(t, int64(1), visitors.Total)
}
