package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authmw "github.com/mind-engage/mindengage-maturity/internal/auth/middleware"
	"github.com/mind-engage/mindengage-maturity/internal/maturity"
	"github.com/mind-engage/mindengage-maturity/internal/playbook"
)

type playbookIndexOut struct {
	Domains []playbook.DomainSummary `json:"domains"`
	Generic []string                 `json:"generic_recommendations"`
}

// GET /playbook
func PlaybookIndexHandler(lib *playbook.Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, playbookIndexOut{
			Domains: lib.Domains(),
			Generic: lib.Catalog().Generic(),
		})
	}
}

type playbookPageOut struct {
	Domain          maturity.DomainID   `json:"domain"`
	Name            string              `json:"name"`
	Band            maturity.Band       `json:"band"`
	Recommendations []string            `json:"recommendations"`
	Templates       []playbook.Template `json:"templates"`
	Guide           *playbook.Guide     `json:"guide"`
}

func pageKey(w http.ResponseWriter, r *http.Request) (maturity.DomainID, maturity.Band, bool) {
	domain := maturity.DomainID(chi.URLParam(r, "domainID"))
	if !maturity.IsDomain(domain) {
		http.Error(w, "unknown domain", http.StatusNotFound)
		return "", "", false
	}
	band, err := maturity.ParseBand(chi.URLParam(r, "band"))
	if err != nil {
		http.Error(w, "unknown band", http.StatusNotFound)
		return "", "", false
	}
	return domain, band, true
}

// GET /playbook/{domainID}/{band}
func PlaybookPageHandler(lib *playbook.Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		domain, band, ok := pageKey(w, r)
		if !ok {
			return
		}
		out := playbookPageOut{
			Domain:          domain,
			Name:            maturity.DomainName(domain),
			Band:            band,
			Recommendations: lib.RecommendationsFor(domain, band),
			Templates:       lib.TemplatesFor(domain, band),
		}
		if g, ok := lib.Guide(domain, band); ok {
			out.Guide = &g
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /admin/playbook/overrides
func ListOverridesHandler(lib *playbook.Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, lib.Overrides())
	}
}

// PUT /admin/playbook/{domainID}/{band}
// body: {"recommendations": [...], "templates": [...], "guide": {...}}
// Omitted fields keep the built-in content.
func PutOverrideHandler(lib *playbook.Library, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		domain, band, ok := pageKey(w, r)
		if !ok {
			return
		}
		var e playbook.Entry
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&e); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		o, err := lib.SetOverride(r.Context(), playbook.Override{
			Domain:    domain,
			Band:      band,
			Entry:     e,
			UpdatedBy: authmw.SubjectFromContext(r.Context()),
		})
		if err != nil {
			writeErr(w, log, err, "save failed")
			return
		}
		writeJSON(w, http.StatusOK, o)
	}
}

// DELETE /admin/playbook/{domainID}/{band}
func DeleteOverrideHandler(lib *playbook.Library, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		domain, band, ok := pageKey(w, r)
		if !ok {
			return
		}
		if err := lib.DeleteOverride(r.Context(), domain, band); err != nil {
			writeErr(w, log, err, "delete failed")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /admin/playbook/reload
func ReloadPlaybookHandler(lib *playbook.Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := lib.Reload()
		switch {
		case errors.Is(err, playbook.ErrNoContentFile):
			http.Error(w, err.Error(), http.StatusConflict)
		case err != nil:
			// previous content stays active
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			writeJSON(w, http.StatusOK, map[string]any{"reloaded": true, "domains": lib.Domains()})
		}
	}
}
