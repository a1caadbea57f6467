package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PantBookingService/pkg/logger"
)

func TestClient_Post_Succeeds(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNoContent} {
		var got Message
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(status)
		}))

		c := NewClient(srv.URL, time.Second, logger.NewNop())
		err := c.Post(context.Background(), "**Ny panthämtning**")
		srv.Close()

		require.NoError(t, err, "status %d", status)
		assert.Equal(t, "**Ny panthämtning**", got.Content)
	}
}

func TestClient_Post_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"You are being rate limited."}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, time.Second, logger.NewNop()).Post(context.Background(), "hej")
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "429")
}

func TestClient_Post_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := NewClient(url, time.Second, logger.NewNop()).Post(context.Background(), "hej")
	assert.ErrorIs(t, err, ErrInternal)
}

func TestClient_CheckConfig(t *testing.T) {
	assert.ErrorIs(t, NewClient("  ", time.Second, logger.NewNop()).CheckConfig(), ErrMissingURL)
	assert.NoError(t, NewClient("https://discord.test/hook", time.Second, logger.NewNop()).CheckConfig())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "kort", truncate("kort", 10))

	long := strings.Repeat("å", MaxContentLength+50)
	got := truncate(long, MaxContentLength)
	assert.Equal(t, MaxContentLength, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "…"))
}
