package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	authmw "github.com/mind-engage/mindengage-maturity/internal/auth/middleware"
	"github.com/mind-engage/mindengage-maturity/internal/maturity"
	"github.com/mind-engage/mindengage-maturity/internal/playbook"
	"github.com/mind-engage/mindengage-maturity/internal/report"
	"github.com/mind-engage/mindengage-maturity/internal/storage"
)

const maxBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps domain errors to 400/404 and everything else to a 500
// with a fixed message.
func writeErr(w http.ResponseWriter, log *zap.Logger, err error, internal string) {
	switch {
	case errors.Is(err, maturity.ErrMalformed),
		errors.Is(err, maturity.ErrUnknownDomain),
		errors.Is(err, maturity.ErrUnknownDimension),
		errors.Is(err, maturity.ErrRatingRange),
		errors.Is(err, playbook.ErrInvalid),
		errors.Is(err, report.ErrOrganizationRequired),
		errors.Is(err, storage.ErrInvalidKey):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, playbook.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		if log != nil {
			log.Error(internal, zap.Error(err))
		}
		http.Error(w, internal, http.StatusInternalServerError)
	}
}

// owner is the authenticated subject; the JWT middleware guarantees it.
func owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	sub := authmw.SubjectFromContext(r.Context())
	if sub == "" {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return "", false
	}
	return sub, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
