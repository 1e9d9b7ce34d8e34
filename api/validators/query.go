package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/freshmartlabs/smartsupply-backend/pkg/errors"
)

// QueryString returns a trimmed query parameter value.
func QueryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// RequireQueryString returns the parameter or a validation error naming it.
func RequireQueryString(r *http.Request, key string) (string, error) {
	value := QueryString(r, key)
	if value == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter required").
			WithDetails(map[string]any{"field": key})
	}
	return value, nil
}
