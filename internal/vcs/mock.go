package vcs

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Mock implements the VCS interface with fixed repository roots, for tests.
type Mock struct {
	mu    sync.RWMutex
	roots []string
	calls int
}

// NewMock creates a mock VCS. Any directory at or below one of the given
// roots resolves to that root; everything else reports "not a repository".
func NewMock(roots ...string) *Mock {
	return &Mock{roots: roots}
}

// AddRoot registers an additional repository root.
func (m *Mock) AddRoot(root string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roots = append(m.roots, root)
}

// RepositoryRoot returns the registered root containing dir.
func (m *Mock) RepositoryRoot(_ context.Context, dir string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, root := range m.roots {
		if dir == root || strings.HasPrefix(dir, root+"/") {
			return root, nil
		}
	}
	return "", fmt.Errorf("not in a git repository: %s", dir)
}

// Calls returns how many times RepositoryRoot was invoked.
func (m *Mock) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}
