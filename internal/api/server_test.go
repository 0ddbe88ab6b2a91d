package api_test

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/memorygame-go/internal/api"
	"github.com/mcoot/memorygame-go/internal/testutil"
)

func TestServerServesAndShutsDown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	srv := api.NewServer(handler, api.DefaultServerConfig(), testutil.NopLogger())

	done := make(chan error, 1)
	go func() { done <- srv.Serve(l) }()

	resp, err := http.Get("http://" + l.Addr().String() + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, l.Addr().String(), srv.Addr())

	require.NoError(t, srv.Shutdown(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestDefaultServerConfig(t *testing.T) {
	cfg := api.DefaultServerConfig()
	assert.Equal(t, 8080, cfg.Port)
	assert.Positive(t, cfg.WriteTimeout)
	assert.Equal(t, ":8080", api.NewServer(http.NotFoundHandler(), cfg, testutil.NopLogger()).Addr())
}
