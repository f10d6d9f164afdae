package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/desempeno/evaluacion-backend/pkg/errors"
	"github.com/desempeno/evaluacion-backend/pkg/i18n"
)

// JSON sends a JSON response with the payload at the top level.
// The legacy evaluation clients consume flat bodies, not an envelope,
// so handlers shape their own payloads.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(data)
}

// Error sends a localized error response of the form {"error": message}.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	ErrorWith(w, r, err, nil)
}

// ErrorWith sends a localized error response with extra top-level fields
// merged in, e.g. {"valid": false} for the credential endpoints or
// {"success": false} for the security question flow.
func ErrorWith(w http.ResponseWriter, r *http.Request, err error, extras map[string]interface{}) {
	body := make(map[string]interface{}, len(extras)+1)
	for k, v := range extras {
		body[k] = v
	}

	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		body["error"] = appErr.Localize(r.Context())

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(appErr.StatusCode)
		json.NewEncoder(w).Encode(body)
		return
	}

	localizer := i18n.LocalizerFromContext(r.Context())
	body["error"] = localizer.T("errors.internal")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(body)
}

// Text sends a plain text response
func Text(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	w.Write([]byte(body))
}

// NoContent sends a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// DecodeJSON decodes the request body into the provided struct
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.BadRequest("errors.invalid_json")
	}
	return nil
}
