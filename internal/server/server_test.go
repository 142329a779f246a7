package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bydupdates/internal/cms"
	"bydupdates/internal/config"
)

type fakeSource struct {
	models []cms.Entry
	err    error
}

func (f *fakeSource) find(slug string) (*cms.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.models {
		if f.models[i].Slug == slug {
			e := f.models[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (f *fakeSource) Blogs(context.Context) ([]cms.Entry, error)       { return nil, f.err }
func (f *fakeSource) Models(context.Context) ([]cms.Entry, error)      { return f.models, f.err }
func (f *fakeSource) Comparisons(context.Context) ([]cms.Entry, error) { return nil, f.err }
func (f *fakeSource) Countries(context.Context) ([]cms.Entry, error)   { return nil, f.err }
func (f *fakeSource) Blog(_ context.Context, s string) (*cms.Entry, error) {
	return nil, f.err
}
func (f *fakeSource) Model(_ context.Context, s string) (*cms.Entry, error) {
	return f.find(s)
}
func (f *fakeSource) Comparison(_ context.Context, s string) (*cms.Entry, error) {
	return nil, f.err
}
func (f *fakeSource) CountryEntry(_ context.Context, s string) (*cms.Entry, error) {
	return nil, f.err
}

func newTestServer(t *testing.T, src *fakeSource, dev bool) (*Server, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s, err := New(Options{Site: config.Default(), Source: src, Dev: dev, Logger: logger})
	require.NoError(t, err)
	return s, hook
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServer_Routes(t *testing.T) {
	src := &fakeSource{models: []cms.Entry{{Slug: "seal", Title: "BYD Seal", Content: "<h2>Range</h2><p>570 km.</p>"}}}
	s, _ := newTestServer(t, src, false)
	h := s.Handler()

	tests := []struct {
		target string
		status int
		want   string
	}{
		{"/", http.StatusOK, "BYD Seal"},
		{"/models", http.StatusOK, "BYD Models"},
		{"/models/seal", http.StatusOK, `id="range"`},
		{"/models/missing", http.StatusNotFound, "Page Not Found"},
		{"/blogs?page=abc", http.StatusOK, "BYD News"},
		{"/ae/models", http.StatusNotFound, "Page Not Found"},
		{"/ev-charge-cost-calculator?battery=60", http.StatusOK, "Custom Vehicle"},
		{"/ev-tool", http.StatusOK, "EV Battery Lifespan Estimator"},
		{"/about", http.StatusOK, "About"},
		{"/no-such-page", http.StatusNotFound, "Page Not Found"},
		{"/a/b/c/d", http.StatusNotFound, "Page Not Found"},
		{"/robots.txt", http.StatusOK, "Sitemap: https://bydcarupdates.com/sitemap.xml"},
		{"/sitemap.xml", http.StatusOK, "https://bydcarupdates.com/models/seal"},
		{"/static/css/style.css", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
			assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
		})
	}
}

func TestServer_UpstreamFailureRenders502(t *testing.T) {
	s, hook := newTestServer(t, &fakeSource{err: errors.New("dial tcp: connection refused")}, false)

	rec := get(t, s.Handler(), "/models/seal")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Temporarily Unavailable")
	var found bool
	for _, e := range hook.AllEntries() {
		if e.Message == "content backend failed" {
			found = true
			assert.NotEmpty(t, e.Data["request_id"])
		}
	}
	assert.True(t, found)
}

func TestServer_RequestLog(t *testing.T) {
	s, hook := newTestServer(t, &fakeSource{}, false)

	req := httptest.NewRequest(http.MethodGet, "/ev-tool", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "request", last.Message)
	assert.Equal(t, "abc-123", last.Data["request_id"])
	assert.Equal(t, http.StatusOK, last.Data["status"])
	assert.Equal(t, "/ev-tool", last.Data["path"])
}

func TestServer_CalculatorAPI(t *testing.T) {
	s, _ := newTestServer(t, &fakeSource{}, false)

	rec := get(t, s.Handler(), "/api/calculator?current=10&target=90")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Session struct {
			Preset string `json:"preset"`
		} `json:"session"`
		Result struct {
			PercentAdded float64 `json:"percent_added"`
			Rows         []any   `json:"rows"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Tesla Model 3 / Y (Long Range)", body.Session.Preset)
	assert.Equal(t, 80.0, body.Result.PercentAdded)
	assert.Len(t, body.Result.Rows, len(config.Default().Calculator.Profiles))
}

func TestServer_DevInjectsReloadScript(t *testing.T) {
	s, _ := newTestServer(t, &fakeSource{}, true)
	h := s.Handler()

	rec := get(t, h, "/ev-tool")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/ws"`)
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))

	css := get(t, h, "/static/css/style.css")
	assert.NotContains(t, css.Body.String(), "WebSocket")

	missing := get(t, h, "/missing/page/x/y")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Contains(t, missing.Body.String(), `"/ws"`)
}

func TestHub_BroadcastsReload(t *testing.T) {
	s, _ := newTestServer(t, &fakeSource{}, true)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return s.hub.count() == 1 }, time.Second, 10*time.Millisecond)
	s.hub.broadcastMessage([]byte("reload"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "reload", string(msg))

	s.hub.closeAll()
	assert.Equal(t, 0, s.hub.count())
}
