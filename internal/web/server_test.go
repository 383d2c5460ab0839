package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/karolswdev/promptarchitect/internal/clipboard"
	"github.com/karolswdev/promptarchitect/internal/form"
	"github.com/karolswdev/promptarchitect/internal/llm"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

type MockEnhancer struct {
	mock.Mock
}

func (m *MockEnhancer) Enhance(ctx context.Context, composedPrompt string) (string, error) {
	args := m.Called(ctx, composedPrompt)
	return args.String(0), args.Error(1)
}

// newTestServer builds a Server whose sessions share enhancer.
func newTestServer(t *testing.T, enhancer form.Enhancer) *Server {
	t.Helper()
	s, err := NewServer(func() *form.Controller {
		return form.NewController(enhancer, clipboard.Browser{}, form.WithCopyReset(time.Hour))
	}, Options{SessionTTL: time.Hour, CopyReset: time.Hour})
	require.NoError(t, err)
	return s
}

// client replays the session cookie across requests like a browser would.
type client struct {
	t      *testing.T
	server *Server
	cookie *http.Cookie
}

func (c *client) do(method, path string, body any) (*httptest.ResponseRecorder, stateResponse) {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.server.Router().ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.Name == SessionCookieName {
			c.cookie = ck
		}
	}

	var state stateResponse
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		_ = json.Unmarshal(w.Body.Bytes(), &state)
	}
	return w, state
}

// newClient opens the page first, which is how a browser gets its session.
func newClient(t *testing.T, s *Server) *client {
	t.Helper()
	c := &client{t: t, server: s}
	w, _ := c.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, c.cookie)
	return c
}

func text(s string) map[string]string { return map[string]string{"text": s} }

func TestHealth(t *testing.T) {
	s := newTestServer(t, new(MockEnhancer))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	assert.Equal(t, 0, s.Sessions().Len(), "health checks do not create sessions")
}

func TestIndex_RendersForm(t *testing.T) {
	s := newTestServer(t, new(MockEnhancer))
	c := &client{t: t, server: s}

	w, _ := c.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Prompt Architect")
	assert.Contains(t, w.Body.String(), `id="idea"`)
	assert.Contains(t, w.Body.String(), "Enhance Prompt")
	assert.Contains(t, w.Body.String(), `"phase":"idle"`)
	require.NotNil(t, c.cookie, "first visit sets a session cookie")
	assert.True(t, c.cookie.HttpOnly)
}

func TestSession_CookieReused(t *testing.T) {
	s := newTestServer(t, new(MockEnhancer))
	c := newClient(t, s)

	_, state := c.do(http.MethodPut, "/api/idea", text("a todo app"))
	assert.Equal(t, "a todo app", state.Idea)
	_, state = c.do(http.MethodGet, "/api/state", nil)
	assert.Equal(t, "a todo app", state.Idea)
	assert.Equal(t, 1, s.Sessions().Len())

	other := newClient(t, s)
	_, state = other.do(http.MethodGet, "/api/state", nil)
	assert.Empty(t, state.Idea, "a second browser gets its own form")
	assert.Equal(t, 2, s.Sessions().Len())
}

func TestSession_UnknownCookieStartsFresh(t *testing.T) {
	s := newTestServer(t, new(MockEnhancer))
	c := &client{t: t, server: s, cookie: &http.Cookie{Name: SessionCookieName, Value: "not-a-uuid"}}

	w, _ := c.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, "not-a-uuid", c.cookie.Value)

	w, state := c.do(http.MethodGet, "/api/state", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, form.PhaseIdle, state.Phase)
}

func TestAPI_RequiresSession(t *testing.T) {
	s := newTestServer(t, new(MockEnhancer))

	testCases := []struct {
		name   string
		cookie *http.Cookie
	}{
		{name: "no cookie"},
		{name: "unknown cookie", cookie: &http.Cookie{Name: SessionCookieName, Value: "6f1c7c1e-3a43-4d0e-9c43-0d6c1b8f1a2b"}},
		{name: "malformed cookie", cookie: &http.Cookie{Name: SessionCookieName, Value: "not-a-uuid"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := &client{t: t, server: s, cookie: tc.cookie}
			for _, path := range []string{"/api/state", "/api/submit"} {
				method := http.MethodGet
				if path == "/api/submit" {
					method = http.MethodPost
				}
				w, _ := c.do(method, path, nil)
				assert.Equal(t, http.StatusUnauthorized, w.Code, path)
				assert.Contains(t, w.Body.String(), ErrNoSession.Error())
			}
		})
	}
	assert.Equal(t, 0, s.Sessions().Len(), "API calls never create sessions")
}

func TestUpdate_BadBody(t *testing.T) {
	s := newTestServer(t, new(MockEnhancer))
	c := newClient(t, s)

	for _, path := range []string{"/api/idea", "/api/context"} {
		w, _ := c.do(http.MethodPut, path, map[string]int{"nope": 1})
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestSubmit_BlankIdeaIsNoOp(t *testing.T) {
	enhancer := new(MockEnhancer)
	s := newTestServer(t, enhancer)
	c := newClient(t, s)

	c.do(http.MethodPut, "/api/context", text("Tasks"))
	c.do(http.MethodPut, "/api/idea", text("   "))
	w, state := c.do(http.MethodPost, "/api/submit?wait=true", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, form.PhaseIdle, state.Phase)
	assert.False(t, state.Loading)
	assert.False(t, state.CanSubmit)
	enhancer.AssertNotCalled(t, "Enhance", mock.Anything, mock.Anything)
}

func TestSubmit_Wait_Success(t *testing.T) {
	enhancer := new(MockEnhancer)
	enhancer.On("Enhance", mock.Anything, "Project Name/Context: Tasks\n\nTask: a todo app").
		Return(`{"meta":{"project_name":"Todo"}}`, nil).Once()
	s := newTestServer(t, enhancer)
	c := newClient(t, s)

	c.do(http.MethodPut, "/api/context", text("Tasks"))
	c.do(http.MethodPut, "/api/idea", text("a todo app"))
	w, state := c.do(http.MethodPost, "/api/submit?wait=true", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, form.PhaseSuccess, state.Phase)
	assert.Equal(t, `{"meta":{"project_name":"Todo"}}`, state.Result)
	assert.Equal(t, "Copy JSON", state.CopyLabel)
	enhancer.AssertExpectations(t)
}

func TestSubmit_WithBody_UsesSubmittedFields(t *testing.T) {
	enhancer := new(MockEnhancer)
	enhancer.On("Enhance", mock.Anything, "Project Name/Context: Tasks\n\nTask: a todo app with reminders").
		Return(`{"meta":{"project_name":"Todo"}}`, nil).Once()
	s := newTestServer(t, enhancer)
	c := newClient(t, s)

	// The stored idea lags behind what the page shows.
	c.do(http.MethodPut, "/api/idea", text("a todo app"))
	w, state := c.do(http.MethodPost, "/api/submit?wait=true", map[string]string{
		"idea":    "a todo app with reminders",
		"context": "Tasks",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, form.PhaseSuccess, state.Phase)
	assert.Equal(t, "a todo app with reminders", state.Idea)
	assert.Equal(t, "Tasks", state.Context)
	enhancer.AssertExpectations(t)
}

func TestSubmit_BadBody(t *testing.T) {
	enhancer := new(MockEnhancer)
	s := newTestServer(t, enhancer)
	c := newClient(t, s)

	w, _ := c.do(http.MethodPost, "/api/submit", map[string]int{"idea": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	enhancer.AssertNotCalled(t, "Enhance", mock.Anything, mock.Anything)
}

func TestSubmit_Async_Failure(t *testing.T) {
	enhancer := new(MockEnhancer)
	enhancer.On("Enhance", mock.Anything, "a todo app").
		Return("", &llm.EnhanceError{Cause: errors.New("boom")}).Once()
	s := newTestServer(t, enhancer)
	c := newClient(t, s)

	c.do(http.MethodPut, "/api/idea", text("a todo app"))
	w, _ := c.do(http.MethodPost, "/api/submit", nil)
	assert.Equal(t, http.StatusAccepted, w.Code)

	require.Eventually(t, func() bool {
		_, state := c.do(http.MethodGet, "/api/state", nil)
		return state.Phase == form.PhaseFailed
	}, 2*time.Second, 10*time.Millisecond)

	_, state := c.do(http.MethodGet, "/api/state", nil)
	assert.Equal(t, llm.EnhanceFailedMessage, state.Error)
	assert.Empty(t, state.Result)
	assert.Equal(t, "a todo app", state.Idea)
	assert.True(t, state.CanSubmit, "retry is allowed after a failure")
}

func TestCopy(t *testing.T) {
	enhancer := new(MockEnhancer)
	enhancer.On("Enhance", mock.Anything, "a todo app").Return("{}", nil).Once()
	s := newTestServer(t, enhancer)
	c := newClient(t, s)

	w, state := c.do(http.MethodPost, "/api/copy", nil)
	assert.Equal(t, http.StatusConflict, w.Code, "nothing to copy yet")
	assert.False(t, state.Copied)

	c.do(http.MethodPut, "/api/idea", text("a todo app"))
	c.do(http.MethodPost, "/api/submit?wait=true", nil)

	w, state = c.do(http.MethodPost, "/api/copy", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, state.Copied)
	assert.Equal(t, "Copied", state.CopyLabel)
}

func TestSessionStore_Sweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore(time.Hour, func() *form.Controller {
		return form.NewController(new(MockEnhancer), clipboard.Browser{})
	})
	store.now = func() time.Time { return now }

	oldID, _ := store.Create()
	now = now.Add(45 * time.Minute)
	freshID, _ := store.Create()
	now = now.Add(30 * time.Minute)

	assert.Equal(t, 1, store.Sweep())
	_, ok := store.Get(oldID)
	assert.False(t, ok, "idle session evicted")
	_, ok = store.Get(freshID)
	assert.True(t, ok)

	// Get refreshed freshID, so it survives another 59 minutes.
	now = now.Add(59 * time.Minute)
	assert.Equal(t, 0, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestSessionStore_ZeroTTLKeepsAll(t *testing.T) {
	store := NewSessionStore(0, func() *form.Controller {
		return form.NewController(new(MockEnhancer), nil)
	})
	store.Create()
	assert.Equal(t, 0, store.Sweep())
	assert.Equal(t, 1, store.Len())
}
