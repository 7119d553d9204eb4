package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	deliverycontext "bazaar/internal/delivery/context"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/service"
)

// maxAuditBody bounds how much of a request body the audit log captures.
const maxAuditBody = 64 * 1024

// AuditMiddleware records every operation to the append-only audit log: the
// route, the caller, the outcome, and for mutating requests a redacted copy
// of the input. It wraps the whole chain, so denied and failed requests are
// recorded too.
type AuditMiddleware struct {
	recorder service.AuditRecorder
}

// NewAuditMiddleware is the constructor for AuditMiddleware.
func NewAuditMiddleware(recorder service.AuditRecorder) *AuditMiddleware {
	return &AuditMiddleware{recorder: recorder}
}

// Handle records the request after the rest of the chain has run. Recording
// never changes the response: the recorder is best-effort by contract.
func (m *AuditMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Reads carry no body worth keeping; everything else gets a
		// redacted copy of its input.
		var input map[string]any
		if c.Request().Method != http.MethodGet {
			input = captureInput(c)
		}

		err := next(c)

		entry := service.AuditEntry{
			Operation: c.Request().Method + " " + routePath(c),
			Input:     input,
			Status:    outcomeStatus(c, err),
		}
		if caller := deliverycontext.GetCaller(c); caller != nil {
			entry.Caller = caller.Username
		}
		if err != nil {
			entry.Outcome = "error"
			var appErr domainerrors.AppError
			if errors.As(err, &appErr) {
				entry.ErrorKind = appErr.ErrorCode()
			} else {
				entry.ErrorKind = "INTERNAL_ERROR"
			}
		} else {
			entry.Outcome = "success"
		}

		m.recorder.Record(c.Request().Context(), entry)

		return err
	}
}

// captureInput reads the JSON body, restores it for the handler, and returns
// a redacted copy. Non-JSON and oversized bodies are dropped rather than
// recorded raw.
func captureInput(c echo.Context) map[string]any {
	req := c.Request()
	if req.Body == nil {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(req.Body, maxAuditBody+1))
	if err != nil {
		return nil
	}
	req.Body = io.NopCloser(bytes.NewReader(body))

	if len(body) == 0 || len(body) > maxAuditBody {
		return nil
	}

	var input map[string]any
	if err := json.Unmarshal(body, &input); err != nil {
		return nil
	}

	return redact(input)
}

// redact replaces the values of credential-looking fields, recursively. The
// walk covers nested objects and arrays of objects alike.
func redact(input map[string]any) map[string]any {
	for key, value := range input {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "password") || strings.Contains(lower, "secret") {
			input[key] = "[REDACTED]"

			continue
		}
		input[key] = redactValue(value)
	}

	return input
}

func redactValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return redact(typed)
	case []any:
		for i, element := range typed {
			typed[i] = redactValue(element)
		}

		return typed
	default:
		return value
	}
}

func routePath(c echo.Context) string {
	if path := c.Path(); path != "" {
		return path
	}

	return c.Request().URL.Path
}

// outcomeStatus derives the response status. When the handler errored, the
// error handler has not run yet, so the status comes from the error itself.
func outcomeStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPCode()
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return http.StatusInternalServerError
}
