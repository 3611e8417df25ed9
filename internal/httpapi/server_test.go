package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screentime-go/internal/dashboard"
	"screentime-go/internal/model"
	"screentime-go/internal/provider"
	"screentime-go/internal/testutil"
	"screentime-go/internal/usage"
)

var testSecret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	router *gin.Engine
	logger *testutil.RecordingLogger
	token  string
}

func newFixture(t *testing.T, p dashboard.Provider) *fixture {
	t.Helper()
	logger := &testutil.RecordingLogger{}
	clock := testutil.FixedClock()
	svc := dashboard.NewService(p, usage.DefaultPalette(), logger, clock)

	token, err := IssueToken(testSecret, provider.DemoParentID, time.Hour, time.Now())
	require.NoError(t, err)

	return &fixture{
		router: NewServer(svc, testSecret, logger).Router(),
		logger: logger,
		token:  token,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, testutil.NewTestDemoProvider())
	f.token = ""

	rec := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuth(t *testing.T) {
	expired, err := IssueToken(testSecret, provider.DemoParentID, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	wrongKey, err := IssueToken([]byte("other"), provider.DemoParentID, time.Hour, time.Now())
	require.NoError(t, err)
	noSubject, err := IssueToken(testSecret, "", time.Hour, time.Now())
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-token"},
		{"expired", expired},
		{"wrong key", wrongKey},
		{"no subject", noSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, testutil.NewTestDemoProvider())
			f.token = tt.token
			rec := f.do(t, http.MethodGet, "/v1/overview", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestIssueToken_NoSecret(t *testing.T) {
	_, err := IssueToken(nil, "p", time.Hour, time.Now())
	assert.Error(t, err)
}

func TestGetOverview(t *testing.T) {
	f := newFixture(t, testutil.NewTestDemoProvider())

	rec := f.do(t, http.MethodGet, "/v1/overview", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	ov := decode[dashboard.Overview](t, rec)
	assert.Equal(t, "Good evening", ov.Greeting)
	assert.Equal(t, usage.Summary{TotalUsage: 315, OnTrack: 1, NeedsAttention: 1, Unread: 2}, ov.Summary)
	require.Len(t, ov.Children, 2)
	assert.Equal(t, "Alex", ov.Children[0].Child.Name)
	assert.Equal(t, 62.5, ov.Children[0].Percent)
}

func TestGetChild(t *testing.T) {
	f := newFixture(t, testutil.NewTestDemoProvider())

	rec := f.do(t, http.MethodGet, "/v1/children/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[dashboard.ChildDetail](t, rec)
	assert.Equal(t, "Emma", d.Card.Child.Name)
	assert.Equal(t, 92, d.RoundedPct)
	assert.Len(t, d.WeeklyBars, 7)

	rec = f.do(t, http.MethodGet, "/v1/children/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetParent(t *testing.T) {
	f := newFixture(t, testutil.NewTestDemoProvider())

	rec := f.do(t, http.MethodGet, "/v1/parent", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[model.Parent](t, rec)
	assert.Equal(t, provider.DemoParentID, p.ID)
}

func TestUnknownParentToken(t *testing.T) {
	f := newFixture(t, testutil.NewTestDemoProvider())
	token, err := IssueToken(testSecret, "stranger", time.Hour, time.Now())
	require.NoError(t, err)
	f.token = token

	rec := f.do(t, http.MethodGet, "/v1/parent", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotifications(t *testing.T) {
	f := newFixture(t, testutil.NewTestDemoProvider())

	rec := f.do(t, http.MethodGet, "/v1/notifications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	feed := decode[dashboard.Feed](t, rec)
	assert.Equal(t, 2, feed.Unread)
	assert.Len(t, feed.Items, 4)

	rec = f.do(t, http.MethodPost, "/v1/notifications/read", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	feed = decode[dashboard.Feed](t, rec)
	assert.Zero(t, feed.Unread)
	for _, item := range feed.Items {
		assert.True(t, item.Notification.Read, item.Notification.ID)
	}

	rec = f.do(t, http.MethodGet, "/v1/notifications", nil)
	assert.Zero(t, decode[dashboard.Feed](t, rec).Unread)
}

func TestMarkAllRead_ProviderFailure(t *testing.T) {
	p := &testutil.FailingProvider{
		Provider: testutil.NewTestDemoProvider(),
		Err:      dashboard.AccessError("mark read", errors.New("connection reset")),
		Fail:     []string{"MarkAllNotificationsRead"},
	}
	f := newFixture(t, p)

	rec := f.do(t, http.MethodPost, "/v1/notifications/read", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")
	assert.Equal(t, 2, f.logger.Count("ERROR"))
}

func TestUpdateRule(t *testing.T) {
	f := newFixture(t, testutil.NewTestDemoProvider())

	rec := f.do(t, http.MethodPatch, "/v1/rules/r3", map[string]any{"enabled": true})
	require.Equal(t, http.StatusOK, rec.Code)
	rule := decode[model.Rule](t, rec)
	assert.Equal(t, "r3", rule.ID)
	assert.True(t, rule.Enabled)

	d := decode[dashboard.ChildDetail](t, f.do(t, http.MethodGet, "/v1/children/1", nil))
	for _, r := range d.Card.Child.Rules {
		if r.ID == "r3" {
			assert.True(t, r.Enabled)
		}
	}
}

func TestUpdateRule_NotOwned(t *testing.T) {
	f := newFixture(t, testutil.NewTestDemoProvider())

	rec := f.do(t, http.MethodPatch, "/v1/rules/nope", map[string]any{"enabled": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPatch, "/v1/rules/r1", "not an object")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddChild(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		status int
		field  string
	}{
		{"created", map[string]any{"name": "Sam", "age": 7, "avatar": "🦊"}, http.StatusCreated, ""},
		{"missing name", map[string]any{"age": 7}, http.StatusBadRequest, ""},
		{"bad age", map[string]any{"name": "Sam", "age": 40}, http.StatusBadRequest, "age"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, testutil.NewTestDemoProvider())
			rec := f.do(t, http.MethodPost, "/v1/children", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.field != "" {
				body := decode[map[string]any](t, rec)
				assert.Equal(t, tt.field, body["field"])
			}
			if tt.status == http.StatusCreated {
				c := decode[model.Child](t, rec)
				assert.Equal(t, "id-1", c.ID)
				assert.Equal(t, "Sam", c.Name)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("child: %w", dashboard.ErrNotFound), http.StatusNotFound},
		{&model.ValidationError{Field: "name", Reason: "required"}, http.StatusBadRequest},
		{fmt.Errorf("listing: %w", dashboard.AccessError("query", errors.New("boom"))), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}
