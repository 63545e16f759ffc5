package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/arkade-dev/storefront-api/internal/apperr"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"message": msg})
}

// writeError is the single place workflow errors become status codes.
// Unknown errors are logged and surface as an opaque 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *apperr.ValidationError
		nf *apperr.NotFoundError
		ae *apperr.AuthorizationError
	)
	switch {
	case errors.As(err, &ve):
		writeMessage(w, http.StatusBadRequest, ve.Message)
	case errors.As(err, &nf):
		writeMessage(w, http.StatusNotFound, nf.Message)
	case errors.As(err, &ae):
		writeMessage(w, http.StatusForbidden, ae.Message)
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, "something went wrong")
	}
}
