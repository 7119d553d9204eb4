package service

import "context"

// AuditEntry is one record in the append-only operation log. Input is a
// serialized view of the request with credential fields already redacted.
type AuditEntry struct {
	Operation string         `json:"operation"`
	Caller    string         `json:"caller,omitempty"`
	Input     map[string]any `json:"input,omitempty"`
	Status    int            `json:"status"`
	Outcome   string         `json:"outcome"`
	ErrorKind string         `json:"error_kind,omitempty"`
}

// AuditRecorder appends entries to the operation log. Recording is
// best-effort: implementations report failures through their own logger and
// never propagate them to the wrapped operation.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}
