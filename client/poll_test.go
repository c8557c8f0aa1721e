package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollHistoryCompletes(t *testing.T) {
	// absent, absent, incomplete, complete: the fourth poll succeeds
	responses := []string{
		`{}`,
		`{}`,
		`{"42": {"status": {"status_str": "running", "completed": false}, "outputs": {}}}`,
		`{"42": {"status": {"status_str": "success", "completed": true}, "outputs": {}}}`,
	}
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/history/42", r.URL.Path)
		n := atomic.AddInt32(&calls, 1)
		require.LessOrEqual(t, int(n), len(responses))
		fmt.Fprint(w, responses[n-1])
	}))
	defer ts.Close()

	c := NewComfyClient(ts.URL)
	entry, err := c.PollHistory(context.Background(), "42", 10, time.Millisecond)
	require.NoError(t, err)
	assert.True(t, entry.Status.Completed)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestPollHistoryTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer ts.Close()

	c := NewComfyClient(ts.URL)
	_, err := c.PollHistory(context.Background(), "42", 3, time.Millisecond)
	assert.ErrorIs(t, err, ErrPollTimeout)
}

func TestPollHistoryTransportErrorIsNotTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer ts.Close()

	c := NewComfyClient(ts.URL)
	_, err := c.PollHistory(context.Background(), "42", 3, time.Millisecond)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPollTimeout)
}

func TestPollHistoryCancellation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewComfyClient(ts.URL)
	_, err := c.PollHistory(ctx, "42", 10, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
