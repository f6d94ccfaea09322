package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/codefionn/taskwire/internal/config"
	"github.com/codefionn/taskwire/internal/endpoint"
	"github.com/codefionn/taskwire/internal/logger"
	"github.com/codefionn/taskwire/internal/pool"
	"github.com/codefionn/taskwire/internal/wire"
	"github.com/codefionn/taskwire/internal/workspace"
)

// Client dispatches tracker operations to per-workspace daemons. All
// collaborators are passed in explicitly; there is no package-level state,
// so tests and embedders can run several independent clients side by side.
//
// Every method takes an optional workspace argument; "" selects the ambient
// workspace (config default, then inference from the current directory).
type Client struct {
	cfg      *config.Config
	resolver *workspace.Resolver
	pool     *pool.Pool
	log      *logger.Logger

	mu       sync.Mutex
	verified map[string]bool
}

// ClientOption customizes a Client at construction.
type ClientOption func(*clientOptions)

type clientOptions struct {
	factory  pool.Factory
	poolOpts []pool.Option
}

// WithFactory replaces the default socket-handle factory. Tests use this to
// point handles at stub daemons.
func WithFactory(f pool.Factory) ClientOption {
	return func(o *clientOptions) {
		o.factory = f
	}
}

// WithPoolOptions forwards extra options to the client's pool.
func WithPoolOptions(opts ...pool.Option) ClientOption {
	return func(o *clientOptions) {
		o.poolOpts = append(o.poolOpts, opts...)
	}
}

// New creates a Client. The client owns its pool; eviction of a pooled
// handle also forgets that workspace's version check, so a replaced daemon
// is re-verified.
func New(cfg *config.Config, resolver *workspace.Resolver, opts ...ClientOption) *Client {
	if cfg == nil {
		cfg = config.Default()
	}
	if resolver == nil {
		resolver = workspace.NewResolver(nil)
	}

	var o clientOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	c := &Client{
		cfg:      cfg,
		resolver: resolver,
		log:      logger.Global().WithPrefix("tracker"),
		verified: make(map[string]bool),
	}

	factory := o.factory
	if factory == nil {
		factory = c.socketFactory
	}

	poolOpts := append([]pool.Option{pool.WithOnEvict(c.forgetVersion)}, o.poolOpts...)
	c.pool = pool.New(factory, poolOpts...)

	return c
}

// socketFactory builds a handle for ws by endpoint discovery, or from the
// configured socket override.
func (c *Client) socketFactory(_ context.Context, ws string) (pool.Handle, error) {
	var ep *endpoint.Endpoint
	if c.cfg.SocketPath != "" {
		ep = &endpoint.Endpoint{SocketPath: c.cfg.SocketPath, WorkingDir: ws}
	} else {
		located, err := endpoint.Locate(ws)
		if err != nil {
			return nil, err
		}
		ep = located
	}
	return pool.NewSocketHandle(ws, ep, c.cfg.Actor, c.cfg.Timeout()), nil
}

func (c *Client) forgetVersion(ws string) {
	c.mu.Lock()
	delete(c.verified, ws)
	c.mu.Unlock()
}

// do resolves the workspace, acquires a handle, enforces the one-time
// version gate, and performs the exchange.
func (c *Client) do(ctx context.Context, ws, operation string, args map[string]any) (json.RawMessage, error) {
	resolved, err := c.resolver.Find(ctx, ws, c.cfg.Workspace)
	if err != nil {
		return nil, err
	}

	h, err := c.pool.Acquire(ctx, resolved)
	if err != nil {
		return nil, err
	}

	if operation != wire.OpPing {
		if err := c.ensureCompatible(ctx, resolved, h); err != nil {
			return nil, err
		}
	}

	return h.Do(ctx, operation, args)
}

// ensureCompatible pings the daemon once per workspace and rejects versions
// older than MinDaemonVersion. The result sticks until the pool evicts the
// workspace's handle.
func (c *Client) ensureCompatible(ctx context.Context, ws string, h pool.Handle) error {
	c.mu.Lock()
	done := c.verified[ws]
	c.mu.Unlock()
	if done {
		return nil
	}

	data, err := h.Do(ctx, wire.OpPing, nil)
	if err != nil {
		return err
	}

	var pong Pong
	if err := wire.DecodeData(data, &pong); err != nil {
		return &wire.ProtocolError{Reason: "undecodable ping payload", Err: err}
	}

	if !versionAtLeast(pong.Version, MinDaemonVersion) {
		c.log.Warn("daemon for %s is too old: %s < %s", ws, pong.Version, MinDaemonVersion)
		return &VersionError{Workspace: ws, Got: pong.Version, Min: MinDaemonVersion}
	}

	c.mu.Lock()
	c.verified[ws] = true
	c.mu.Unlock()
	c.log.Debug("daemon for %s verified at version %s", ws, pong.Version)
	return nil
}

// Ping performs a liveness exchange and returns the daemon's identity line.
func (c *Client) Ping(ctx context.Context, ws string) (*Pong, error) {
	data, err := c.do(ctx, ws, wire.OpPing, nil)
	if err != nil {
		return nil, err
	}
	var pong Pong
	if err := wire.DecodeData(data, &pong); err != nil {
		return nil, &wire.ProtocolError{Reason: "undecodable ping payload", Err: err}
	}
	return &pong, nil
}

// Health returns the daemon's health report as-is.
func (c *Client) Health(ctx context.Context, ws string) (map[string]any, error) {
	data, err := c.do(ctx, ws, wire.OpHealth, nil)
	if err != nil {
		return nil, err
	}
	report := map[string]any{}
	if err := wire.DecodeData(data, &report); err != nil {
		return nil, &wire.ProtocolError{Reason: "undecodable health payload", Err: err}
	}
	return report, nil
}

// Init initializes tracker state in the workspace and returns the daemon's
// confirmation message. The prefix seeds issue identifiers (for example "tw"
// yields tw-1, tw-2, …).
func (c *Client) Init(ctx context.Context, ws, prefix string) (string, error) {
	args := map[string]any{}
	if prefix != "" {
		args["prefix"] = prefix
	}
	data, err := c.do(ctx, ws, wire.OpInit, args)
	if err != nil {
		return "", err
	}
	return decodeMessage(data)
}

// Create files a new issue and returns it as stored by the daemon.
func (c *Client) Create(ctx context.Context, ws string, fields CreateFields) (*Issue, error) {
	if fields.Title == "" {
		return nil, errors.New("create: title is required")
	}
	if fields.IssueType != "" && !fields.IssueType.Valid() {
		return nil, fmt.Errorf("create: unknown issue type %q", fields.IssueType)
	}
	if fields.Priority != nil && (*fields.Priority < 0 || *fields.Priority > 4) {
		return nil, fmt.Errorf("create: priority %d out of range 0-4", *fields.Priority)
	}

	data, err := c.do(ctx, ws, wire.OpCreate, fields.args())
	if err != nil {
		return nil, err
	}
	return decodeIssue(data)
}

// Show fetches one issue by id.
func (c *Client) Show(ctx context.Context, ws, id string) (*Issue, error) {
	data, err := c.do(ctx, ws, wire.OpShow, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	return decodeIssue(data)
}

// List returns issues matching the filters.
func (c *Client) List(ctx context.Context, ws string, filters ListFilters) ([]Issue, error) {
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, fmt.Errorf("list: unknown status %q", filters.Status)
	}

	data, err := c.do(ctx, ws, wire.OpList, filters.args())
	if err != nil {
		return nil, err
	}
	return decodeIssues(data)
}

// Update applies a partial update to an issue. Setting the status to closed
// is rewritten to the dedicated close operation so closing has exactly one
// path through the daemon.
func (c *Client) Update(ctx context.Context, ws, id string, fields UpdateFields) (*Issue, error) {
	if fields.Status != nil && !fields.Status.Valid() {
		return nil, fmt.Errorf("update: unknown status %q", *fields.Status)
	}
	if fields.Priority != nil && (*fields.Priority < 0 || *fields.Priority > 4) {
		return nil, fmt.Errorf("update: priority %d out of range 0-4", *fields.Priority)
	}

	if fields.Status != nil && *fields.Status == StatusClosed {
		reason := ""
		if fields.Notes != nil {
			reason = *fields.Notes
		}
		return c.Close(ctx, ws, id, reason)
	}

	args := fields.args()
	args["id"] = id
	data, err := c.do(ctx, ws, wire.OpUpdate, args)
	if err != nil {
		return nil, err
	}
	return decodeIssue(data)
}

// Close closes an issue, optionally recording a reason, and returns the
// issue as the daemon stored it.
func (c *Client) Close(ctx context.Context, ws, id, reason string) (*Issue, error) {
	args := map[string]any{"id": id}
	if reason != "" {
		args["reason"] = reason
	}
	data, err := c.do(ctx, ws, wire.OpClose, args)
	if err != nil {
		return nil, err
	}
	return decodeIssueOrFirst(data)
}

// Reopen reopens closed issues, optionally recording a reason, and returns
// the reopened issues.
func (c *Client) Reopen(ctx context.Context, ws string, ids []string, reason string) ([]Issue, error) {
	if len(ids) == 0 {
		return nil, errors.New("reopen: no issue ids given")
	}
	args := map[string]any{"ids": ids}
	if reason != "" {
		args["reason"] = reason
	}
	data, err := c.do(ctx, ws, wire.OpReopen, args)
	if err != nil {
		return nil, err
	}
	return decodeIssues(data)
}

// Ready returns open issues with no open blockers, in priority order.
func (c *Client) Ready(ctx context.Context, ws string, filters ReadyFilters) ([]Issue, error) {
	data, err := c.do(ctx, ws, wire.OpReady, filters.args())
	if err != nil {
		return nil, err
	}
	return decodeIssues(data)
}

// Blocked returns issues that cannot proceed, each with its blockers.
func (c *Client) Blocked(ctx context.Context, ws string) ([]BlockedIssue, error) {
	data, err := c.do(ctx, ws, wire.OpBlocked, nil)
	if err != nil {
		return nil, err
	}
	var blocked []BlockedIssue
	if err := wire.DecodeData(data, &blocked); err != nil {
		return nil, &wire.ProtocolError{Reason: "undecodable blocked payload", Err: err}
	}
	return blocked, nil
}

// Stats returns issue counts for the workspace.
func (c *Client) Stats(ctx context.Context, ws string) (*Stats, error) {
	data, err := c.do(ctx, ws, wire.OpStats, nil)
	if err != nil {
		return nil, err
	}
	var stats Stats
	if err := wire.DecodeData(data, &stats); err != nil {
		return nil, &wire.ProtocolError{Reason: "undecodable stats payload", Err: err}
	}
	return &stats, nil
}

// AddDependency records a dependency edge from one issue to another. An
// empty dependency type defaults to blocks.
func (c *Client) AddDependency(ctx context.Context, ws, from, to string, depType DepType) error {
	if depType == "" {
		depType = DepBlocks
	}
	if !depType.Valid() {
		return fmt.Errorf("dep: unknown dependency type %q", depType)
	}
	_, err := c.do(ctx, ws, wire.OpDepAdd, map[string]any{
		"from_id":  from,
		"to_id":    to,
		"dep_type": string(depType),
	})
	return err
}

// Workspace resolves the effective workspace the way dispatch would,
// without touching the daemon. CLI surfaces use it for error reporting.
func (c *Client) Workspace(ctx context.Context, ws string) (string, error) {
	return c.resolver.Find(ctx, ws, c.cfg.Workspace)
}

func decodeIssue(data json.RawMessage) (*Issue, error) {
	var issue Issue
	if err := wire.DecodeData(data, &issue); err != nil {
		return nil, &wire.ProtocolError{Reason: "undecodable issue payload", Err: err}
	}
	return &issue, nil
}

// decodeIssueOrFirst accepts both a single issue object and a one-element
// issue list; close answers with the latter on some daemon versions.
func decodeIssueOrFirst(data json.RawMessage) (*Issue, error) {
	var list []Issue
	if err := wire.DecodeData(data, &list); err == nil {
		if len(list) == 0 {
			return nil, &wire.ProtocolError{Reason: "empty issue list payload"}
		}
		return &list[0], nil
	}
	return decodeIssue(data)
}

// decodeMessage accepts both {"message": "…"} and a bare string payload.
func decodeMessage(data json.RawMessage) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	var wrapped struct {
		Message string `json:"message"`
	}
	if err := wire.DecodeData(data, &wrapped); err == nil && wrapped.Message != "" {
		return wrapped.Message, nil
	}
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		return plain, nil
	}
	return "", &wire.ProtocolError{Reason: "undecodable message payload"}
}

// decodeIssues accepts both a bare array and an {"issues": […]} wrapper;
// daemon versions differ here.
func decodeIssues(data json.RawMessage) ([]Issue, error) {
	var issues []Issue
	if err := wire.DecodeData(data, &issues); err == nil {
		return issues, nil
	}
	var wrapped struct {
		Issues []Issue `json:"issues"`
	}
	if err := wire.DecodeData(data, &wrapped); err != nil {
		return nil, &wire.ProtocolError{Reason: "undecodable issue list payload", Err: err}
	}
	return wrapped.Issues, nil
}
