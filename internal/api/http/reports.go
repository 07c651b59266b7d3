package http

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-maturity/internal/assessment"
	"github.com/mind-engage/mindengage-maturity/internal/report"
)

// POST /reports  body: {"organization": "...", "format": "pdf|xlsx"}
// Responds with the document as an attachment.
func ExportReportHandler(svc *assessment.Service, reports *report.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := owner(w, r)
		if !ok {
			return
		}
		var in struct {
			Organization string `json:"organization"`
			Format       string `json:"format"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if in.Format == "" {
			in.Format = string(report.FormatPDF)
		}
		f, err := report.ParseFormat(in.Format)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res, err := svc.Get(r.Context(), sub)
		if err != nil {
			writeErr(w, log, err, "export failed")
			return
		}
		out, err := reports.Export(r.Context(), sub, report.Request{Organization: in.Organization, Result: res}, f)
		if err != nil {
			writeErr(w, log, err, "export failed")
			return
		}
		w.Header().Set("Content-Type", f.ContentType())
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.Filename}))
		w.Header().Set("Content-Length", strconv.Itoa(len(out.Data)))
		w.Header().Set("X-Report-ID", out.Report.ID)
		_, _ = w.Write(out.Data)
	}
}

type archivedOut struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// GET /reports
func ListReportsHandler(archive *report.Archive, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := owner(w, r)
		if !ok {
			return
		}
		list, err := archive.List(r.Context(), sub)
		if err != nil {
			writeErr(w, log, err, "list failed")
			return
		}
		out := make([]archivedOut, 0, len(list))
		for _, o := range list {
			out = append(out, archivedOut{Name: path.Base(o.Key), Size: o.Size, CreatedAt: o.ModTime})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /reports/{name}
func DownloadReportHandler(archive *report.Archive, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := owner(w, r)
		if !ok {
			return
		}
		name := chi.URLParam(r, "name")
		rc, f, err := archive.Open(r.Context(), sub, name)
		if err != nil {
			writeErr(w, log, err, "download failed")
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", f.ContentType())
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
		_, _ = io.Copy(w, rc)
	}
}
