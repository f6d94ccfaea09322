package wire

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"time"

	"github.com/codefionn/taskwire/internal/logger"
)

// maxResponseLine caps the buffered response line. List payloads can be
// large; a daemon exceeding this is misbehaving.
const maxResponseLine = 16 * 1024 * 1024

// Exchange performs one complete request/response cycle against the daemon
// socket: dial, write one line, read one line, close. The timeout applies
// separately to the connect and read phases; the two failure modes surface
// as distinct error types because a read timeout does not prove the
// operation failed server-side.
func Exchange(ctx context.Context, socketPath string, req *Request, timeout time.Duration) (json.RawMessage, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "unix", socketPath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &ConnectError{SocketPath: socketPath, Err: err}
	}
	defer conn.Close()

	// Cancelling the context aborts the in-flight read/write by expiring
	// the connection deadline; the channel is simply abandoned.
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Now())
	})
	defer stop()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &ProtocolError{Reason: "failed to encode request", Err: err}
	}
	payload = append(payload, '\n')

	conn.SetWriteDeadline(time.Now().Add(timeout))
	if _, err := conn.Write(payload); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &ConnectError{SocketPath: socketPath, Err: err}
	}

	conn.SetReadDeadline(time.Now().Add(timeout))
	reader := bufio.NewReaderSize(conn, 64*1024)
	line, err := readLine(reader)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, &TimeoutError{Operation: req.Operation, SocketPath: socketPath}
		}
		if errors.Is(err, io.EOF) {
			return nil, &ProtocolError{Reason: "daemon closed connection without responding"}
		}
		return nil, &ProtocolError{Reason: "failed to read response", Err: err}
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		logger.Debug("undecodable response line for %s: %q", req.Operation, truncate(line, 200))
		return nil, &ProtocolError{Reason: "undecodable response line", Err: err}
	}

	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "unknown error"
		}
		return nil, &RemoteError{Operation: req.Operation, Message: msg}
	}

	return resp.Data, nil
}

func readLine(reader *bufio.Reader) ([]byte, error) {
	var line []byte
	for {
		chunk, isPrefix, err := reader.ReadLine()
		if err != nil {
			return nil, err
		}
		line = append(line, chunk...)
		if !isPrefix {
			return line, nil
		}
		if len(line) > maxResponseLine {
			return nil, errors.New("response line exceeds limit")
		}
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
