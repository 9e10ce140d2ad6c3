package dokicasa

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	commonhttp "github.com/mojjammil/dokicasa-integration/internal/common/http"
	"github.com/mojjammil/dokicasa-integration/internal/common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	return NewClient("tok-123", commonhttp.NewClient(5*time.Second, 3), logger.NewTestLogger(t))
}

func TestClient_GetSendsHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"form":{"a":{"is_required":1}}}`))
	}))
	defer srv.Close()

	ctx := ContextWithRequestID(context.Background(), "req-42")
	resp, err := newTestClient(t).Get(ctx, srv.URL+"/api/v3/form/x")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "req-42", got.Get("X-Request-ID"))
	assert.Empty(t, got.Get("Content-Type"))

	decoded, ok := resp.JSON().(map[string]interface{})
	require.True(t, ok)
	field := decoded["form"].(map[string]interface{})["a"].(map[string]interface{})
	assert.Equal(t, json.Number("1"), field["is_required"])
}

func TestClient_PostEncodesBody(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &body))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"FORM123"}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(t).Post(context.Background(), srv.URL, map[string]interface{}{
		"metadata": map[string]interface{}{"external_id": "32727_4"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{"id": "FORM123"}, resp.JSON())
	assert.Equal(t, "32727_4", body["metadata"].(map[string]interface{})["external_id"])
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"messages":{"has_errors":false,"errors":[]}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t).Post(context.Background(), srv.URL, map[string]interface{}{})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)

	decoded := statusErr.JSON().(map[string]interface{})
	messages := decoded["messages"].(map[string]interface{})
	assert.Equal(t, false, messages["has_errors"])
}

func TestClient_NonJSONErrorBodyIsKeptAsString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(t).Get(context.Background(), srv.URL)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "gateway down\n", statusErr.JSON())
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t).Get(context.Background(), url)
	require.Error(t, err)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.MethodGet, transportErr.Method)
	assert.NotNil(t, errors.Unwrap(transportErr))
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
}
