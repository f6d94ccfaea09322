// Package wire implements the framed request/response protocol spoken with
// the taskwire daemon: one JSON object per line, newline-terminated, over a
// fresh Unix socket connection per exchange. There is no pipelining and no
// session state; a line is the unit of framing.
package wire

import "encoding/json"

// Operations understood by the daemon.
const (
	OpPing    = "ping"
	OpHealth  = "health"
	OpInit    = "init"
	OpCreate  = "create"
	OpUpdate  = "update"
	OpClose   = "close"
	OpReopen  = "reopen"
	OpList    = "list"
	OpShow    = "show"
	OpReady   = "ready"
	OpBlocked = "blocked"
	OpStats   = "stats"
	OpDepAdd  = "dep_add"
)

// Request is a single-shot request envelope.
type Request struct {
	Operation string         `json:"operation"`
	Args      map[string]any `json:"args"`
	CWD       string         `json:"cwd"`
	Actor     string         `json:"actor,omitempty"`
}

// Response is a single-shot response envelope. Success=false is a normal,
// well-formed answer carrying a domain-level error message, not a transport
// failure.
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// NewRequest builds a request envelope. A nil args map is normalized to an
// empty object so the daemon always sees {"args": {}}.
func NewRequest(operation string, args map[string]any, cwd, actor string) *Request {
	if args == nil {
		args = map[string]any{}
	}
	return &Request{
		Operation: operation,
		Args:      args,
		CWD:       cwd,
		Actor:     actor,
	}
}

// DecodeData unmarshals a response payload into v. The daemon sometimes
// double-encodes payloads as JSON strings; that layer is peeled first.
func DecodeData(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return err
		}
		if inner == "" {
			return nil
		}
		return json.Unmarshal([]byte(inner), v)
	}
	return json.Unmarshal(data, v)
}
