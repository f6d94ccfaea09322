package endpoint

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefionn/taskwire/internal/workspace"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, nil, 0644))
}

func TestLocateWalksUpward(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	root := t.TempDir()
	touch(t, filepath.Join(root, workspace.MarkerDir, SocketFile))

	deep := filepath.Join(root, "b", "c")
	require.NoError(t, os.MkdirAll(deep, 0755))

	ep, err := Locate(deep)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, workspace.MarkerDir, SocketFile), ep.SocketPath)
	assert.Equal(t, root, ep.WorkingDir)
}

func TestLocatePrefersClosestMarker(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	root := t.TempDir()
	touch(t, filepath.Join(root, workspace.MarkerDir, SocketFile))

	nested := filepath.Join(root, "sub")
	touch(t, filepath.Join(nested, workspace.MarkerDir, SocketFile))

	ep, err := Locate(nested)
	require.NoError(t, err)
	assert.Equal(t, nested, ep.WorkingDir)
}

func TestLocateMarkerWithoutSocketFallsBackToGlobal(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	touch(t, filepath.Join(home, workspace.MarkerDir, SocketFile))

	ws := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(ws, workspace.MarkerDir), 0755))

	ep, err := Locate(ws)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, workspace.MarkerDir, SocketFile), ep.SocketPath)
	assert.Equal(t, ws, ep.WorkingDir)
}

func TestLocateNothingFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	ws := t.TempDir()
	_, err := Locate(ws)
	require.Error(t, err)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, nf.Error(), workspace.MarkerDir)
	assert.Contains(t, nf.Error(), "twd serve")
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()

	assert.False(t, Detect(""))
	assert.False(t, Detect(filepath.Join(dir, "missing.sock")))

	// A plain file is not a socket.
	plain := filepath.Join(dir, "plain")
	touch(t, plain)
	assert.False(t, Detect(plain))

	sock := filepath.Join(dir, "real.sock")
	ln, err := net.Listen("unix", sock)
	require.NoError(t, err)
	defer ln.Close()

	assert.True(t, Detect(sock))
}

func TestAwaitSocketAlreadyPresent(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, workspace.MarkerDir, SocketFile))

	sock, err := Await(context.Background(), dir, time.Second)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, workspace.MarkerDir, SocketFile), sock)
}

func TestAwaitSocketAppearsLater(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, workspace.MarkerDir, SocketFile)

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = os.MkdirAll(filepath.Dir(target), 0755)
		_ = os.WriteFile(target, nil, 0644)
	}()

	sock, err := Await(context.Background(), dir, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, target, sock)
}

func TestAwaitTimesOut(t *testing.T) {
	_, err := Await(context.Background(), t.TempDir(), 150*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not appear")
}

func TestAwaitHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := Await(ctx, t.TempDir(), 10*time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
