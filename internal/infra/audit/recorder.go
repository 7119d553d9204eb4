// Package audit implements the append-only operation log.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"time"

	"bazaar/config"
	"bazaar/internal/domain/service"
	"bazaar/internal/errors"

	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// fileRecorder appends one JSON document per line to a log file opened in
// append-only mode. Writes are best-effort: a failed write is reported to the
// service logger and the wrapped operation proceeds untouched.
type fileRecorder struct {
	mu     sync.Mutex
	file   *os.File
	logger *slog.Logger
}

// nopRecorder discards entries. Used when auditing is disabled.
type nopRecorder struct{}

func (nopRecorder) Record(context.Context, service.AuditEntry) {}

// New constructs the audit recorder from config and registers a shutdown
// hook that closes the underlying file.
func New(params Params) (service.AuditRecorder, error) {
	if params.Config.Audit == nil || !params.Config.Audit.Enabled {
		return nopRecorder{}, nil
	}

	path := params.Config.Audit.Path
	if path == "" {
		path = "audit.log"
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open audit log %s", path)
	}

	recorder := &fileRecorder{file: file, logger: params.Logger}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return recorder.close()
		},
	})

	return recorder, nil
}

type auditLine struct {
	Time time.Time `json:"time"`
	service.AuditEntry
}

// Record appends the entry. Logging is never a correctness dependency, so
// marshal or write failures are only reported to the service logger.
func (r *fileRecorder) Record(ctx context.Context, entry service.AuditEntry) {
	line, err := json.Marshal(auditLine{Time: time.Now().UTC(), AuditEntry: entry})
	if err != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "Failed to marshal audit entry",
			slog.String("operation", entry.Operation),
			slog.String("error", err.Error()),
		)

		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.file.Write(append(line, '\n')); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "Failed to append audit entry",
			slog.String("operation", entry.Operation),
			slog.String("error", err.Error()),
		)
	}
}

func (r *fileRecorder) close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.file.Close()
}
