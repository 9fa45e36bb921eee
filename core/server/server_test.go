package server_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cafe/core/server"
)

func startServer(t *testing.T, srv *server.Server, h http.Handler) (context.CancelFunc, <-chan error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, h) }()

	select {
	case <-srv.Started():
	case err := <-done:
		cancel()
		t.Fatalf("server failed to start: %v", err)
	case <-time.After(2 * time.Second):
		cancel()
		t.Fatal("server did not start")
	}

	return cancel, done
}

func TestServerRun(t *testing.T) {
	t.Parallel()

	t.Run("serves requests until the context is cancelled", func(t *testing.T) {
		t.Parallel()

		srv := server.New("127.0.0.1:0")
		cancel, done := startServer(t, srv, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "hello")
		}))

		resp, err := http.Get("http://" + srv.Addr() + "/")
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, "hello", string(body))

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("server did not stop")
		}
	})

	t.Run("waits for in-flight requests", func(t *testing.T) {
		t.Parallel()

		entered := make(chan struct{})
		srv := server.New("127.0.0.1:0", server.WithShutdownTimeout(2*time.Second))
		cancel, done := startServer(t, srv, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(entered)
			time.Sleep(100 * time.Millisecond)
			_, _ = io.WriteString(w, "slow")
		}))

		result := make(chan string, 1)
		go func() {
			resp, err := http.Get("http://" + srv.Addr() + "/")
			if err != nil {
				result <- err.Error()
				return
			}
			defer resp.Body.Close()
			b, _ := io.ReadAll(resp.Body)
			result <- string(b)
		}()

		<-entered
		cancel()

		assert.Equal(t, "slow", <-result)
		assert.NoError(t, <-done)
	})

	t.Run("runs only once", func(t *testing.T) {
		t.Parallel()

		srv := server.New("127.0.0.1:0")
		cancel, done := startServer(t, srv, http.NotFoundHandler())
		defer func() {
			cancel()
			<-done
		}()

		err := srv.Run(context.Background(), http.NotFoundHandler())
		assert.ErrorIs(t, err, server.ErrServerAlreadyRunning)
	})

	t.Run("missing address", func(t *testing.T) {
		t.Parallel()

		err := server.New("").Run(context.Background(), http.NotFoundHandler())
		assert.ErrorIs(t, err, server.ErrMissingAddress)
	})

	t.Run("address in use", func(t *testing.T) {
		t.Parallel()

		first := server.New("127.0.0.1:0")
		cancel, done := startServer(t, first, http.NotFoundHandler())
		defer func() {
			cancel()
			<-done
		}()

		err := server.New(first.Addr()).Run(context.Background(), http.NotFoundHandler())
		assert.Error(t, err)
	})
}

func TestConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults listen on port 4000", func(t *testing.T) {
		t.Parallel()

		cfg := server.DefaultConfig()
		assert.Equal(t, ":4000", cfg.Addr())
		assert.NoError(t, cfg.Validate())
	})

	t.Run("host and port", func(t *testing.T) {
		t.Parallel()

		cfg := server.DefaultConfig()
		cfg.Host = "127.0.0.1"
		cfg.Port = 8081
		assert.Equal(t, "127.0.0.1:8081", cfg.Addr())

		srv, err := server.NewFromConfig(cfg)
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:8081", srv.Addr())
	})

	t.Run("invalid port", func(t *testing.T) {
		t.Parallel()

		cfg := server.DefaultConfig()
		cfg.Port = 70000
		_, err := server.NewFromConfig(cfg)
		assert.ErrorIs(t, err, server.ErrInvalidPort)
	})

	t.Run("half configured TLS", func(t *testing.T) {
		t.Parallel()

		cfg := server.DefaultConfig()
		cfg.TLSCertFile = "cert.pem"
		_, err := server.NewFromConfig(cfg)
		assert.ErrorIs(t, err, server.ErrFailedLoadCert)
	})

	t.Run("unreadable certificate", func(t *testing.T) {
		t.Parallel()

		cfg := server.DefaultConfig()
		cfg.TLSCertFile = "/nonexistent/cert.pem"
		cfg.TLSKeyFile = "/nonexistent/key.pem"
		_, err := server.NewFromConfig(cfg)
		assert.ErrorIs(t, err, server.ErrFailedLoadCert)
	})
}
