package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/heartmarshall/alumni-network-backend/internal/domain"
	"github.com/heartmarshall/alumni-network-backend/pkg/ctxutil"
)

const maxBodyBytes = 64 << 10

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries a stable machine code and a human message.
type ErrorBody struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldIssue `json:"fields,omitempty"`
}

// FieldIssue is one field-level validation problem.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// errorKinds maps specific errors before their generic kinds. Order matters:
// specific sentinels wrap the kind sentinels.
var errorKinds = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrSelfRequest, http.StatusBadRequest, "SELF_REQUEST"},
	{domain.ErrEmptyContent, http.StatusBadRequest, "EMPTY_CONTENT"},
	{domain.ErrValidation, http.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHENTICATED"},
	{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{domain.ErrAlreadyConnected, http.StatusConflict, "ALREADY_CONNECTED"},
	{domain.ErrRequestAlreadyPending, http.StatusConflict, "REQUEST_ALREADY_PENDING"},
	{domain.ErrRejectionCooldown, http.StatusConflict, "REJECTION_COOLDOWN"},
	{domain.ErrInvalidState, http.StatusConflict, "INVALID_STATE"},
	{domain.ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS"},
	{domain.ErrConflict, http.StatusConflict, "CONFLICT"},
}

// handleError maps domain errors to HTTP responses. Unknown errors are
// logged and returned as INTERNAL without detail.
func handleError(ctx context.Context, log *slog.Logger, w http.ResponseWriter, err error) {
	for _, k := range errorKinds {
		if !errors.Is(err, k.target) {
			continue
		}
		body := ErrorBody{Code: k.code, Message: publicMessage(k.target)}
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			for _, fe := range ve.Errors {
				body.Fields = append(body.Fields, FieldIssue{Field: fe.Field, Message: fe.Message})
			}
		}
		writeJSON(w, k.status, ErrorResponse{Error: body})
		return
	}

	if errors.Is(err, context.Canceled) {
		return
	}

	log.ErrorContext(ctx, "unexpected error",
		slog.String("error", err.Error()),
		slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
	)
	writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
}

func publicMessage(kind error) string {
	switch kind {
	case domain.ErrUnauthorized:
		return "authentication required"
	case domain.ErrValidation:
		return "invalid input"
	}
	return kind.Error()
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.NewValidationError("body", "malformed JSON body")
	}
	return nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, domain.NewValidationError(name, "must be a UUID")
	}
	return id, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer")
	}
	return n, nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, domain.NewValidationError(name, "must be a boolean")
	}
	return b, nil
}
