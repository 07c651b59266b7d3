package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-maturity/internal/assessment"
	"github.com/mind-engage/mindengage-maturity/internal/maturity"
	syncx "github.com/mind-engage/mindengage-maturity/internal/sync"
)

type resultOut struct {
	Result   maturity.AssessmentResult `json:"result"`
	Answered int                       `json:"answered"`
	Total    int                       `json:"total"`
}

func newResultOut(res maturity.AssessmentResult) resultOut {
	a, t := res.Progress()
	return resultOut{Result: res, Answered: a, Total: t}
}

// GET /assessment
func GetAssessmentHandler(svc *assessment.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := owner(w, r)
		if !ok {
			return
		}
		res, err := svc.Get(r.Context(), sub)
		if err != nil {
			writeErr(w, log, err, "load failed")
			return
		}
		writeJSON(w, http.StatusOK, newResultOut(res))
	}
}

// PUT /assessment  body: the full result document, strictly validated.
func ReplaceAssessmentHandler(svc *assessment.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := owner(w, r)
		if !ok {
			return
		}
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
		if err != nil {
			http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
			return
		}
		res, err := maturity.Decode(raw)
		if err != nil {
			writeErr(w, log, err, "save failed")
			return
		}
		saved, err := svc.Replace(r.Context(), sub, res)
		if err != nil {
			writeErr(w, log, err, "save failed")
			return
		}
		writeJSON(w, http.StatusOK, newResultOut(saved))
	}
}

// PUT /assessment/{domainID}/{dimension}  body: {"value": 0..5}
func SetRatingHandler(svc *assessment.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := owner(w, r)
		if !ok {
			return
		}
		var in struct {
			Value *int `json:"value"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&in); err != nil || in.Value == nil {
			http.Error(w, "bad json: want {\"value\": 0..5}", http.StatusBadRequest)
			return
		}
		domain := maturity.DomainID(chi.URLParam(r, "domainID"))
		dim := maturity.Dimension(chi.URLParam(r, "dimension"))
		res, err := svc.SetRating(r.Context(), sub, domain, dim, *in.Value)
		if err != nil {
			writeErr(w, log, err, "save failed")
			return
		}
		writeJSON(w, http.StatusOK, newResultOut(res))
	}
}

// PUT /assessment/{domainID}  body: all five ratings of one domain.
func SetDomainHandler(svc *assessment.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := owner(w, r)
		if !ok {
			return
		}
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
		if err != nil {
			http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
			return
		}
		ratings, err := maturity.DecodeRatings(raw)
		if err != nil {
			writeErr(w, log, err, "save failed")
			return
		}
		domain := maturity.DomainID(chi.URLParam(r, "domainID"))
		res, err := svc.SetDomain(r.Context(), sub, domain, ratings)
		if err != nil {
			writeErr(w, log, err, "save failed")
			return
		}
		writeJSON(w, http.StatusOK, newResultOut(res))
	}
}

// DELETE /assessment
func ResetAssessmentHandler(svc *assessment.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := owner(w, r)
		if !ok {
			return
		}
		res, err := svc.Reset(r.Context(), sub)
		if err != nil {
			writeErr(w, log, err, "reset failed")
			return
		}
		writeJSON(w, http.StatusOK, newResultOut(res))
	}
}

// GET /assessment/summary
func SummaryHandler(svc *assessment.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := owner(w, r)
		if !ok {
			return
		}
		c, err := svc.Summary(r.Context(), sub)
		if err != nil {
			writeErr(w, log, err, "load failed")
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// EventLister reads an owner's audit trail.
type EventLister interface {
	List(ctx context.Context, key string, limit int) ([]syncx.Event, error)
}

// GET /assessment/history?limit=N
func HistoryHandler(events EventLister, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := owner(w, r)
		if !ok {
			return
		}
		limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
		if limit > 500 {
			limit = 500
		}
		list, err := events.List(r.Context(), sub, limit)
		if err != nil {
			writeErr(w, log, err, "history failed")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
