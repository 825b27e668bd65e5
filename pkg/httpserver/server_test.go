package httpserver_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formkit-dev/formkit/pkg/httpserver"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestServerRun(t *testing.T) {
	t.Parallel()

	t.Run("serves requests until context cancellation", func(t *testing.T) {
		t.Parallel()
		addr := freeAddr(t)
		srv := httpserver.New(httpserver.WithAddr(addr), httpserver.WithShutdownTimeout(time.Second))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("pong"))
			}))
		}()

		var resp *http.Response
		var err error
		require.Eventually(t, func() bool {
			resp, err = http.Get(fmt.Sprintf("http://%s/", addr))
			return err == nil
		}, 2*time.Second, 20*time.Millisecond)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		assert.Equal(t, "pong", string(body))

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(3 * time.Second):
			t.Fatal("server did not shut down")
		}
	})

	t.Run("wraps listen failures with ErrStart", func(t *testing.T) {
		t.Parallel()
		srv := httpserver.New(httpserver.WithAddr("256.256.256.256:99999"))
		err := srv.Run(context.Background(), nil)
		assert.ErrorIs(t, err, httpserver.ErrStart)
	})
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	t.Run("ok without checks", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		httpserver.Healthcheck(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("failing dependency returns 500", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		check := func(context.Context) error { return errors.New("db down") }
		httpserver.Healthcheck(nil, check).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
