package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ideaforge/auth-server/internal/server"
)

func TestHTTPServer_Address(t *testing.T) {
	s := NewHTTPServer(":8080", http.NewServeMux())
	assert.Equal(t, ":8080", s.Address())
}

func TestHTTPServer_StartStop(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	s := NewHTTPServer("127.0.0.1:0", mux)

	done := make(chan error, 1)
	go func() { done <- s.Start(server.NewPlainListener()) }()

	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestHTTPServer_Start_ListenError(t *testing.T) {
	s := NewHTTPServer("256.256.256.256:0", http.NewServeMux())

	err := s.Start(server.NewPlainListener())
	assert.Error(t, err)
}
