package wire

import "fmt"

// ConnectError reports that the daemon socket could not be reached: missing,
// refused, or a connect-phase timeout. This is the only transport error a
// caller may retry.
type ConnectError struct {
	SocketPath string
	Err        error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("failed to connect to daemon at %s: %v", e.SocketPath, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// TimeoutError reports that the response line did not arrive in time. It is
// deliberately distinct from ConnectError: the request reached the daemon,
// so the operation may or may not have executed. Callers must not retry it
// blindly.
type TimeoutError struct {
	Operation  string
	SocketPath string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for %q response from %s (the operation may still have executed server-side)",
		e.Operation, e.SocketPath)
}

// ProtocolError reports a malformed exchange: the daemon closed without
// answering or sent an undecodable line. It indicates a defect, not a
// transient condition, and is never retried.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol error: %s: %v", e.Reason, e.Err)
	}
	return "protocol error: " + e.Reason
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// RemoteError is a well-formed success=false answer from the daemon. The
// message is the daemon's, passed through verbatim; this is the normal way
// domain-level failures are communicated.
type RemoteError struct {
	Operation string
	Message   string
}

func (e *RemoteError) Error() string { return e.Message }
