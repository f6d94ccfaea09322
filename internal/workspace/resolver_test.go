package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codefionn/taskwire/internal/vcs"
)

// chdir changes the working directory for the duration of the test,
// restoring the previous one on cleanup (t.Chdir needs Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

// realDir returns a temp directory with symlinks in its own path resolved,
// so expectations match EvalSymlinks output.
func realDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func TestResolveIdempotent(t *testing.T) {
	proj := realDir(t)
	r := NewResolver(vcs.NewMock(proj))

	first := r.Resolve(context.Background(), proj)
	assert.Equal(t, proj, first)
	assert.Equal(t, first, r.Resolve(context.Background(), first))
}

func TestResolveSymlinkConvergence(t *testing.T) {
	base := realDir(t)
	proj := filepath.Join(base, "proj")
	require.NoError(t, os.Mkdir(proj, 0755))

	link := filepath.Join(base, "link")
	require.NoError(t, os.Symlink(proj, link))

	r := NewResolver(vcs.NewMock(proj))

	assert.Equal(t, proj, r.Resolve(context.Background(), proj))
	assert.Equal(t, proj, r.Resolve(context.Background(), link))
}

func TestResolveNestedMarkerPrecedence(t *testing.T) {
	parent := realDir(t)
	require.NoError(t, os.MkdirAll(filepath.Join(parent, MarkerDir), 0755))

	nested := filepath.Join(parent, "vendor", "sub")
	require.NoError(t, os.MkdirAll(filepath.Join(nested, MarkerDir), 0755))

	// Both live inside one repository rooted at parent.
	r := NewResolver(vcs.NewMock(parent))

	assert.Equal(t, nested, r.Resolve(context.Background(), nested))
	assert.Equal(t, parent, r.Resolve(context.Background(), parent))
}

func TestResolveVCSRoot(t *testing.T) {
	root := realDir(t)
	sub := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(sub, 0755))

	r := NewResolver(vcs.NewMock(root))
	assert.Equal(t, root, r.Resolve(context.Background(), sub))
}

func TestResolveNoVCSFallsBackToPath(t *testing.T) {
	dir := realDir(t)

	r := NewResolver(vcs.NewMock())
	assert.Equal(t, dir, r.Resolve(context.Background(), dir))
}

func TestResolveMemoizesByLiteralInput(t *testing.T) {
	root := realDir(t)
	mock := vcs.NewMock(root)
	r := NewResolver(mock)

	for i := 0; i < 5; i++ {
		r.Resolve(context.Background(), root)
	}
	assert.Equal(t, 1, mock.Calls())

	// A different spelling is computed independently but converges.
	dotted := root + string(os.PathSeparator) + "."
	assert.Equal(t, root, r.Resolve(context.Background(), dotted))
	assert.Equal(t, 2, mock.Calls())
}

func TestFindExplicitWins(t *testing.T) {
	explicit := realDir(t)
	ambient := realDir(t)
	r := NewResolver(vcs.NewMock())

	ws, err := r.Find(context.Background(), explicit, ambient)
	require.NoError(t, err)
	assert.Equal(t, explicit, ws)
}

func TestFindAmbientFallback(t *testing.T) {
	ambient := realDir(t)
	r := NewResolver(vcs.NewMock())

	ws, err := r.Find(context.Background(), "", ambient)
	require.NoError(t, err)
	assert.Equal(t, ambient, ws)
}

func TestFindInfersFromCwd(t *testing.T) {
	root := realDir(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, MarkerDir), 0755))
	deep := filepath.Join(root, "x", "y")
	require.NoError(t, os.MkdirAll(deep, 0755))

	chdir(t, deep)

	r := NewResolver(vcs.NewMock())
	ws, err := r.Find(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, root, ws)
}

func TestFindNoWorkspace(t *testing.T) {
	chdir(t, realDir(t))

	r := NewResolver(vcs.NewMock())
	_, err := r.Find(context.Background(), "", "")
	require.Error(t, err)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, nf.Error(), MarkerDir)
	assert.Contains(t, nf.Error(), "twd init")
}
