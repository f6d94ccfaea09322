package wire_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefionn/taskwire/internal/daemontest"
	"github.com/codefionn/taskwire/internal/wire"
)

func startDaemon(t *testing.T) *daemontest.Daemon {
	t.Helper()
	d, err := daemontest.Start(filepath.Join(t.TempDir(), "twd.sock"))
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func TestExchangeRoundTrip(t *testing.T) {
	d := startDaemon(t)
	d.Handle(wire.OpShow, func(req *wire.Request) (any, error) {
		return map[string]any{"id": req.Args["id"], "title": "fix the build"}, nil
	})

	req := wire.NewRequest(wire.OpShow, map[string]any{"id": "tw-1"}, "/tmp/proj", "alice")
	data, err := wire.Exchange(context.Background(), d.SocketPath, req, 2*time.Second)
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "tw-1", got["id"])
	assert.Equal(t, "fix the build", got["title"])

	// The envelope carried cwd and actor through unchanged.
	reqs := d.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/tmp/proj", reqs[0].CWD)
	assert.Equal(t, "alice", reqs[0].Actor)
}

func TestExchangeNilArgsBecomeEmptyObject(t *testing.T) {
	d := startDaemon(t)

	req := wire.NewRequest(wire.OpStats, nil, "/tmp/proj", "")
	_, err := wire.Exchange(context.Background(), d.SocketPath, req, 2*time.Second)
	// stats has no handler registered: a well-formed remote error.
	var remote *wire.RemoteError
	require.ErrorAs(t, err, &remote)

	reqs := d.Requests()
	require.Len(t, reqs, 1)
	assert.NotNil(t, reqs[0].Args)
}

func TestExchangeConnectFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "twd.sock")

	req := wire.NewRequest(wire.OpPing, nil, "/tmp", "")
	_, err := wire.Exchange(context.Background(), missing, req, time.Second)
	require.Error(t, err)

	var connErr *wire.ConnectError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, missing, connErr.SocketPath)
}

func TestExchangeReadTimeoutIsDistinctFromConnectFailure(t *testing.T) {
	d := startDaemon(t)
	d.SetDelay(2 * time.Second)

	req := wire.NewRequest(wire.OpPing, nil, "/tmp", "")
	_, err := wire.Exchange(context.Background(), d.SocketPath, req, 200*time.Millisecond)
	require.Error(t, err)

	var timeoutErr *wire.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, wire.OpPing, timeoutErr.Operation)

	var connErr *wire.ConnectError
	assert.False(t, errors.As(err, &connErr), "read timeout must not look like a connect failure")
	assert.Contains(t, err.Error(), "may still have executed")
}

func TestExchangeClosedWithoutResponse(t *testing.T) {
	d := startDaemon(t)
	d.SetDropConnections(true)

	req := wire.NewRequest(wire.OpPing, nil, "/tmp", "")
	_, err := wire.Exchange(context.Background(), d.SocketPath, req, time.Second)

	var protoErr *wire.ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Contains(t, err.Error(), "without responding")
}

func TestExchangeGarbageLine(t *testing.T) {
	d := startDaemon(t)
	d.SetGarbage(true)

	req := wire.NewRequest(wire.OpPing, nil, "/tmp", "")
	_, err := wire.Exchange(context.Background(), d.SocketPath, req, time.Second)

	var protoErr *wire.ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Contains(t, err.Error(), "undecodable")
}

func TestExchangeRemoteErrorVerbatim(t *testing.T) {
	d := startDaemon(t)
	d.Handle(wire.OpClose, func(*wire.Request) (any, error) {
		return nil, fmt.Errorf("issue tw-9 is already closed")
	})

	req := wire.NewRequest(wire.OpClose, map[string]any{"id": "tw-9"}, "/tmp", "")
	_, err := wire.Exchange(context.Background(), d.SocketPath, req, time.Second)

	var remote *wire.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "issue tw-9 is already closed", remote.Error())
	assert.Equal(t, wire.OpClose, remote.Operation)
}

func TestExchangeContextCancellation(t *testing.T) {
	d := startDaemon(t)
	d.SetDelay(5 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	req := wire.NewRequest(wire.OpPing, nil, "/tmp", "")
	_, err := wire.Exchange(ctx, d.SocketPath, req, 10*time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeData(t *testing.T) {
	type payload struct {
		ID string `json:"id"`
	}

	var direct payload
	require.NoError(t, wire.DecodeData(json.RawMessage(`{"id":"tw-1"}`), &direct))
	assert.Equal(t, "tw-1", direct.ID)

	// Double-encoded string payloads are peeled.
	var wrapped payload
	require.NoError(t, wire.DecodeData(json.RawMessage(`"{\"id\":\"tw-2\"}"`), &wrapped))
	assert.Equal(t, "tw-2", wrapped.ID)

	var empty payload
	require.NoError(t, wire.DecodeData(nil, &empty))
	require.NoError(t, wire.DecodeData(json.RawMessage(`""`), &empty))
	assert.Empty(t, empty.ID)
}
