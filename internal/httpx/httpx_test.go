package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	return NewWith(&http.Client{}, 3, 0)
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		json.NewEncoder(w).Encode(map[string]string{"hello": "world"})
	}))
	defer srv.Close()

	var out map[string]string
	got, err := testClient().GetJSON(context.Background(), srv.URL, &out)
	require.NoError(t, err)
	assert.True(t, got)
	assert.Equal(t, "world", out["hello"])
}

func TestGetJSONNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	var out map[string]string
	got, err := testClient().GetJSON(context.Background(), srv.URL, &out)
	require.NoError(t, err)
	assert.False(t, got)
	assert.Empty(t, out)
}

func TestGetJSONEmptyBodyCountsAsNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var out []int
	got, err := testClient().GetJSON(context.Background(), srv.URL, &out)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode([]int{1, 2, 3})
	}))
	defer srv.Close()

	var out []int
	got, err := testClient().GetJSON(context.Background(), srv.URL, &out)
	require.NoError(t, err)
	assert.True(t, got)
	assert.Equal(t, []int{1, 2, 3}, out)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	var out []int
	_, err := testClient().GetJSON(context.Background(), srv.URL, &out)
	require.Error(t, err)
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusNotFound, serr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestExhaustedRetriesReturnLastStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var out []int
	_, err := testClient().GetJSON(context.Background(), srv.URL, &out)
	require.Error(t, err)
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusBadGateway, serr.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPostJSONSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "IN2010-1", body["emnekode"])
		json.NewEncoder(w).Encode([]string{"ok"})
	}))
	defer srv.Close()

	var out []string
	got, err := testClient().PostJSON(context.Background(), srv.URL, map[string]string{"emnekode": "IN2010-1"}, &out)
	require.NoError(t, err)
	assert.True(t, got)
	assert.Equal(t, []string{"ok"}, out)
}
