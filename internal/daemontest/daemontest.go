// Package daemontest provides an in-process scripted daemon speaking the
// taskwire wire protocol over a Unix socket. It exists so client packages
// can exercise the real dial/write/read path in tests, including injected
// delays, dropped connections, and malformed lines. It is not shipped
// behavior.
package daemontest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/codefionn/taskwire/internal/wire"
)

// Handler serves one operation. Returning an error yields a success=false
// response carrying the error text.
type Handler func(req *wire.Request) (any, error)

// Daemon is a scripted stub daemon.
type Daemon struct {
	SocketPath string

	listener net.Listener

	mu        sync.Mutex
	handlers  map[string]Handler
	version   string
	delay     time.Duration
	dropConns bool
	garbage   bool
	requests  []wire.Request

	wg     sync.WaitGroup
	closed chan struct{}
}

// Start launches a stub daemon listening on socketPath. A default ping
// handler answering {"message":"pong","version":…} is installed.
func Start(socketPath string) (*Daemon, error) {
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", socketPath, err)
	}

	d := &Daemon{
		SocketPath: socketPath,
		listener:   ln,
		handlers:   make(map[string]Handler),
		version:    "1.0.0",
		closed:     make(chan struct{}),
	}

	d.wg.Add(1)
	go d.serve()

	return d, nil
}

// Close stops the daemon and removes its socket.
func (d *Daemon) Close() {
	select {
	case <-d.closed:
		return
	default:
	}
	close(d.closed)
	d.listener.Close()
	d.wg.Wait()
}

// Handle registers a handler for an operation.
func (d *Daemon) Handle(operation string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[operation] = h
}

// SetVersion changes the version reported by the default ping handler.
func (d *Daemon) SetVersion(version string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.version = version
}

// SetDelay makes every response wait before being written, to trigger
// read-phase timeouts in clients.
func (d *Daemon) SetDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = delay
}

// SetDropConnections makes the daemon close connections without answering.
func (d *Daemon) SetDropConnections(drop bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dropConns = drop
}

// SetGarbage makes the daemon answer with a non-JSON line.
func (d *Daemon) SetGarbage(garbage bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.garbage = garbage
}

// Requests returns a copy of every request received so far.
func (d *Daemon) Requests() []wire.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]wire.Request, len(d.requests))
	copy(out, d.requests)
	return out
}

// RequestCount returns how many requests were received for an operation.
func (d *Daemon) RequestCount(operation string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, req := range d.requests {
		if req.Operation == operation {
			n++
		}
	}
	return n
}

func (d *Daemon) serve() {
	defer d.wg.Done()
	for {
		conn, err := d.listener.Accept()
		if err != nil {
			select {
			case <-d.closed:
				return
			default:
				continue
			}
		}
		d.wg.Add(1)
		go d.handleConn(conn)
	}
}

func (d *Daemon) handleConn(conn net.Conn) {
	defer d.wg.Done()
	defer conn.Close()

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return
	}

	var req wire.Request
	if err := json.Unmarshal(line, &req); err != nil {
		d.writeResponse(conn, &wire.Response{Success: false, Error: "malformed request"})
		return
	}

	d.mu.Lock()
	d.requests = append(d.requests, req)
	delay := d.delay
	drop := d.dropConns
	garbage := d.garbage
	handler := d.handlers[req.Operation]
	version := d.version
	d.mu.Unlock()

	if drop {
		return
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-d.closed:
			return
		}
	}
	if garbage {
		fmt.Fprintf(conn, "this is not json\n")
		return
	}

	if handler == nil && req.Operation == wire.OpPing {
		handler = func(*wire.Request) (any, error) {
			return map[string]string{"message": "pong", "version": version}, nil
		}
	}
	if handler == nil {
		d.writeResponse(conn, &wire.Response{
			Success: false,
			Error:   fmt.Sprintf("unknown operation: %s", req.Operation),
		})
		return
	}

	data, err := handler(&req)
	if err != nil {
		d.writeResponse(conn, &wire.Response{Success: false, Error: err.Error()})
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		d.writeResponse(conn, &wire.Response{Success: false, Error: "unencodable response"})
		return
	}
	d.writeResponse(conn, &wire.Response{Success: true, Data: raw})
}

func (d *Daemon) writeResponse(conn net.Conn, resp *wire.Response) {
	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	conn.Write(append(payload, '\n'))
}
