package server_test

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dom/tutorial-blog/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener, err := server.Listen(ctx, "127.0.0.1:0")
	require.NoError(t, err)

	srv := server.New(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))
	assert.Equal(t, server.ReadTimeout, srv.ReadTimeout)

	var stopped atomic.Bool
	grp, grpCtx := errgroup.WithContext(ctx)
	server.Serve(grpCtx, grp, srv, listener, time.Second, func() { stopped.Store(true) })

	resp, err := http.Get("http://" + listener.Addr().String() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))

	cancel()
	require.NoError(t, grp.Wait())
	assert.True(t, stopped.Load())

	_, err = http.Get("http://" + listener.Addr().String() + "/")
	assert.Error(t, err)
}

func TestListen_AddressInUse(t *testing.T) {
	ctx := context.Background()

	first, err := server.Listen(ctx, "127.0.0.1:0")
	require.NoError(t, err)
	defer first.Close()

	_, err = server.Listen(ctx, first.Addr().String())
	assert.Error(t, err)
}
