package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetJSONDecodesBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		require.NotEmpty(t, r.Header.Get("User-Agent"))
		json.NewEncoder(w).Encode(map[string]string{"name": "bitcoin"})
	}))
	defer ts.Close()

	client := New(2 * time.Second)

	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, client.GetJSON(context.Background(), ts.URL, nil, &out))
	require.Equal(t, "bitcoin", out.Name)
}

func TestGetJSONSetsHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "token", r.Header.Get("X-CMC_PRO_API_KEY"))
		w.Write([]byte("{}"))
	}))
	defer ts.Close()

	client := New(2 * time.Second)
	headers := map[string]string{"X-CMC_PRO_API_KEY": "token"}

	require.NoError(t, client.GetJSON(context.Background(), ts.URL, headers, nil))
}

func TestGetJSONNon200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client := New(2 * time.Second)

	err := client.GetJSON(context.Background(), ts.URL, nil, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}

func TestPostJSONReturnsStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var payload map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, 1, payload["service_id"])
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	client := New(2 * time.Second)

	status, err := client.PostJSON(context.Background(), ts.URL, nil, map[string]int{"service_id": 1}, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestPostJSONTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	client := New(2 * time.Second)

	status, err := client.PostJSON(context.Background(), ts.URL, nil, map[string]int{}, nil)
	require.Error(t, err)
	require.Zero(t, status)
}

func TestGetJSONContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer ts.Close()

	client := New(5 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	require.Error(t, client.GetJSON(ctx, ts.URL, nil, nil))
}
