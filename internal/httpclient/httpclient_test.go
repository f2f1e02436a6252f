package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Defaults(t *testing.T) {
	c := New(Options{})
	assert.Equal(t, defaultTimeout, c.Timeout)
	_, ok := c.Transport.(*http.Transport)
	assert.True(t, ok)

	c = New(Options{Timeout: 5 * time.Second})
	assert.Equal(t, 5*time.Second, c.Timeout)
}

func TestNew_LogsOutboundRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	core, logs := observer.New(zap.DebugLevel)
	c := New(Options{Logger: zap.New(core)})

	resp, err := c.Get(srv.URL + "/v1beta/models?key=secret")
	require.NoError(t, err)
	resp.Body.Close()

	entries := logs.FilterMessage("outbound request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, "/v1beta/models", fields["path"])
	for _, v := range fields {
		if s, ok := v.(string); ok {
			assert.NotContains(t, s, "secret")
		}
	}
}
