// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bibrun-test", r.Header.Get("User-Agent"))
		w.Write([]byte("hello"))
	}))
	defer ts.Close()

	body, err := Get(context.Background(), ts.Client(), ts.URL, "bibrun-test")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
}

func TestGet_NonOKIsNotRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer ts.Close()

	_, err := Get(context.Background(), ts.Client(), ts.URL, "")
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Equal(t, "slow down", se.Body)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestIsStatus(t *testing.T) {
	err := eris.Wrap(&StatusError{URL: "u", StatusCode: http.StatusNotFound}, "altmetric")
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.False(t, IsStatus(err, http.StatusInternalServerError))
	assert.False(t, IsStatus(eris.New("plain"), http.StatusNotFound))
}

func TestGet_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := Get(context.Background(), http.DefaultClient, url, "")
	assert.Error(t, err)
}
