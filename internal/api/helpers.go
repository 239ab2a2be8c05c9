package api

import (
	"errors"
	"io"
	"net/http"
	"os"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/mp4probe/pkg/bmff"
)

func decodeJSON[T any](r io.Reader) (T, error) {
	var v T
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return v, err
	}
	return v, nil
}

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Blob(status, echo.MIMEApplicationJSON, b)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return writeJSON(c, status, map[string]any{
		"error": APIError{Message: msg, Type: errType},
	})
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

// writeProbeError maps store and scan failures onto HTTP statuses. A
// missing box and a missing file are both 404s with distinct types so
// clients can tell them apart; malformed container data is the client's
// file's fault, not the server's.
func writeProbeError(c *echo.Context, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return writeError(c, http.StatusNotFound, "file_not_found", err.Error())
	case errors.Is(err, bmff.ErrBoxNotFound):
		return writeError(c, http.StatusNotFound, "box_not_found", err.Error())
	case errors.Is(err, bmff.ErrMalformedBox),
		errors.Is(err, bmff.ErrUnexpectedEOF),
		errors.Is(err, bmff.ErrShortRead):
		return writeError(c, http.StatusUnprocessableEntity, "malformed_file", err.Error())
	default:
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
}
