package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"bazaar/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileRecorder(t *testing.T) (*fileRecorder, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "audit.log")
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	require.NoError(t, err)

	recorder := &fileRecorder{
		file:   file,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	t.Cleanup(func() { _ = recorder.close() })

	return recorder, path
}

func TestFileRecorder_AppendsOneLinePerEntry(t *testing.T) {
	recorder, path := newFileRecorder(t)
	ctx := context.Background()

	recorder.Record(ctx, service.AuditEntry{
		Operation: "POST /accounts/register",
		Input:     map[string]any{"username": "jane", "password": "[REDACTED]"},
		Status:    201,
		Outcome:   "success",
	})
	recorder.Record(ctx, service.AuditEntry{
		Operation: "POST /sales/purchase",
		Caller:    "jane",
		Status:    409,
		Outcome:   "failure",
		ErrorKind: "INSUFFICIENT_FUNDS",
	})

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var lines []auditLine
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var line auditLine
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, lines, 2)
	assert.Equal(t, "POST /accounts/register", lines[0].Operation)
	assert.Equal(t, "[REDACTED]", lines[0].Input["password"])
	assert.False(t, lines[0].Time.IsZero())
	assert.Equal(t, "INSUFFICIENT_FUNDS", lines[1].ErrorKind)
	assert.Equal(t, "jane", lines[1].Caller)
}

func TestFileRecorder_WriteFailureDoesNotPanic(t *testing.T) {
	recorder, _ := newFileRecorder(t)
	require.NoError(t, recorder.close())

	// Recording after close must swallow the write error.
	recorder.Record(context.Background(), service.AuditEntry{Operation: "GET /health"})
}

func TestNopRecorder_Discards(t *testing.T) {
	nopRecorder{}.Record(context.Background(), service.AuditEntry{Operation: "anything"})
}
