package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/quiz-fulfillment/internal/dialog"
	"github.com/aliskhannn/quiz-fulfillment/internal/i18n"
	"github.com/aliskhannn/quiz-fulfillment/internal/repository"
	"github.com/aliskhannn/quiz-fulfillment/internal/service"
)

type stubDispatcher struct {
	resp dialog.Response
	err  error
	got  dialog.Event
}

func (s *stubDispatcher) Dispatch(_ context.Context, ev dialog.Event) (dialog.Response, error) {
	s.got = ev
	return s.resp, s.err
}

func newServer(t *testing.T, d Dispatcher) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(NewHandler(d, nil)))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	res, err := http.Post(srv.URL+"/fulfillment", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func TestHealth(t *testing.T) {
	srv := newServer(t, &stubDispatcher{})

	res, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
}

func TestFulfillmentStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		body string
		want int
	}{
		{"ok", nil, `{"sessionId":"s","sessionState":{"intent":{"name":"Welcome"}}}`, http.StatusOK},
		{"bad json", nil, `{"sessionId":`, http.StatusBadRequest},
		{"unknown intent", &service.UnknownIntentError{Name: "Nope"}, `{"sessionState":{"intent":{"name":"Nope"}}}`, http.StatusBadRequest},
		{"handler failure", errors.New("boom"), `{"sessionState":{"intent":{"name":"StartQuiz"}}}`, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, &stubDispatcher{err: tt.err})
			res := post(t, srv, tt.body)
			assert.Equal(t, tt.want, res.StatusCode)
		})
	}
}

func TestFulfillmentPassesEvent(t *testing.T) {
	stub := &stubDispatcher{resp: dialog.Response{SessionID: "s"}}
	srv := newServer(t, stub)

	res := post(t, srv, `{"sessionId":"s","invocationSource":"DialogCodeHook","sessionState":{"intent":{"name":"Welcome"}}}`)
	require.Equal(t, http.StatusOK, res.StatusCode)

	assert.Equal(t, "s", stub.got.SessionID)
	assert.Equal(t, dialog.DialogCodeHook, stub.got.InvocationSource)
	assert.Equal(t, "Welcome", stub.got.IntentName())
}

func TestFulfillmentEndToEnd(t *testing.T) {
	repo, err := repository.NewMemoryRepository("")
	require.NoError(t, err)
	tr, err := i18n.New("ja", nil)
	require.NoError(t, err)
	d, err := service.New(repo, tr, service.Options{}, nil)
	require.NoError(t, err)

	srv := newServer(t, d)
	res := post(t, srv, `{
		"sessionId": "abc",
		"invocationSource": "DialogCodeHook",
		"sessionState": {"intent": {"name": "Welcome", "slots": {"UserName": {"value": {"interpretedValue": "ゆい"}}}}}
	}`)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var resp dialog.Response
	require.NoError(t, json.NewDecoder(res.Body).Decode(&resp))
	assert.Equal(t, dialog.ActionClose, resp.SessionState.DialogAction.Type)
	assert.Equal(t, "abc", resp.SessionID)
	require.NotEmpty(t, resp.Messages)
	assert.Contains(t, resp.Messages[0].Content, "ゆい")
	assert.NotEmpty(t, resp.SessionState.SessionAttributes)
}
