package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/logx"
)

// UserIDHeader carries the identity of the acting user.
const UserIDHeader = "X-User-ID"

const (
	bodyLimit = 1 << 20
)

func reqID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

func writeJSON(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil && logger != nil {
		logger.Warn("json encode error",
			logx.String("req_id", reqID(r.Context())),
			logx.Err(err),
		)
	}
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errResponse struct {
	Error errorBody `json:"error"`
}

// statusOf maps an error kind to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidTransition), errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrDeadlinePassed):
		return http.StatusGone
	case errors.Is(err, apperr.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the kind and client-facing message of err.
// Unclassified errors are logged and reported as "internal error".
func writeError(logger logx.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	kind := apperr.KindOf(err)
	msg := apperr.MessageOf(err)
	if status == http.StatusGatewayTimeout {
		kind, msg = "timeout", "request timed out"
	}

	if logger != nil {
		fields := []logx.Field{
			logx.String("req_id", reqID(r.Context())),
			logx.Int("status", status),
			logx.String("kind", kind),
		}
		if status >= http.StatusInternalServerError {
			logger.Error("http error", append(fields, logx.Err(err))...)
		} else {
			logger.Debug("http error", append(fields, logx.String("msg", msg))...)
		}
	}
	writeJSON(logger, w, r, status, errResponse{Error: errorBody{Kind: kind, Message: msg}})
}

func writeInvalid(logger logx.Logger, w http.ResponseWriter, r *http.Request, msg string) {
	writeError(logger, w, r, apperr.Invalid(msg))
}

func decodeJSON[T any](logger logx.Logger, w http.ResponseWriter, r *http.Request, dst *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeInvalid(logger, w, r, "invalid json")
		return false
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		writeInvalid(logger, w, r, "invalid json: trailing data")
		return false
	}
	return true
}

func uuidFromURL(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apperr.Invalid("invalid " + name)
	}
	return id, nil
}

// actorFromRequest returns the trusted identity from the X-User-ID header.
func actorFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(r.Header.Get(UserIDHeader))
	if raw == "" {
		return uuid.Nil, apperr.Invalid("missing " + UserIDHeader + " header")
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apperr.Invalid("invalid " + UserIDHeader + " header")
	}
	return id, nil
}
