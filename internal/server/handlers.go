package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lehigh-university-libraries/oaistruct/internal/export"
	"github.com/lehigh-university-libraries/oaistruct/internal/mets"
	"github.com/lehigh-university-libraries/oaistruct/internal/metrics"
	"github.com/lehigh-university-libraries/oaistruct/internal/models"
	"github.com/lehigh-university-libraries/oaistruct/internal/oai"
	"github.com/lehigh-university-libraries/oaistruct/internal/query"
)

var contentTypes = map[string]string{
	"json":  "application/json",
	"jsonl": "application/x-ndjson",
	"yaml":  "application/yaml",
	"text":  "text/plain; charset=utf-8",
}

func (s *Server) handleStructures(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	contentType, ok := contentTypes[format]
	if !ok {
		s.writeError(w, "unsupported format: "+format, http.StatusBadRequest)
		return
	}

	doc, ok := s.fetch(w, r)
	if !ok {
		return
	}

	elements, err := mets.ResolveStructuralElements(doc, mets.Options{
		Types:         types(r),
		AuthorPairing: s.pairing,
	})
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	metrics.StructuresResolved.Add(float64(len(elements)))

	w.Header().Set("Content-Type", contentType)
	if err := export.Write(w, format, elements); err != nil {
		s.log.Error("Unable to write structures", "err", err)
	}
}

func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.fetch(w, r)
	if !ok {
		return
	}

	ids, ok := mets.ResolveIdentifiers(doc, types(r))
	if !ok {
		s.writeFailure(w, mets.ErrNoStructureFound)
		return
	}

	pages := make([]models.PageInfo, 0, len(ids))
	for _, id := range ids {
		info, err := mets.ResolvePages(doc, id)
		if err != nil {
			s.writeFailure(w, err)
			return
		}
		pages = append(pages, info)
	}
	s.writeJSON(w, pages)
}

// fetch retrieves the record named by the {id} route parameter. It writes the
// error response itself and reports false on failure.
func (s *Server) fetch(w http.ResponseWriter, r *http.Request) (*query.Document, bool) {
	// chi matches on RawPath when it is set, leaving the parameter escaped.
	id := chi.URLParam(r, "id")
	var err error
	if r.URL.RawPath != "" {
		id, err = url.PathUnescape(id)
	}
	if err != nil || id == "" {
		s.writeError(w, "invalid record identifier", http.StatusBadRequest)
		return nil, false
	}

	doc, err := s.fetcher.GetRecord(r.Context(), id)
	metrics.FetchTotal.WithLabelValues(fetchOutcome(err)).Inc()
	if err != nil {
		s.writeFailure(w, err)
		return nil, false
	}
	return doc, true
}

// types reads the repeatable ?type= parameter. Comma separated lists are
// accepted too.
func types(r *http.Request) []string {
	var out []string
	for _, v := range r.URL.Query()["type"] {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

// StatusFor maps a fetch or resolve error to an HTTP status code.
func StatusFor(err error) int {
	var oaiErr oai.OAIError
	switch {
	case errors.Is(err, oai.ErrTransport), errors.Is(err, query.ErrMalformedXML):
		return http.StatusBadGateway
	case errors.As(err, &oaiErr):
		if oaiErr.Code == "idDoesNotExist" {
			return http.StatusNotFound
		}
		return http.StatusBadRequest
	case errors.Is(err, mets.ErrNoStructureFound):
		return http.StatusNotFound
	case errors.Is(err, mets.ErrMalformedOrderAttribute), errors.Is(err, mets.ErrNameCountMismatch):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func fetchOutcome(err error) string {
	var oaiErr oai.OAIError
	switch {
	case err == nil:
		return metrics.FetchOK
	case errors.Is(err, oai.ErrTransport):
		return metrics.FetchTransport
	case errors.Is(err, query.ErrMalformedXML):
		return metrics.FetchMalformed
	case errors.As(err, &oaiErr):
		return metrics.FetchOAIError
	}
	return metrics.FetchOther
}

// Response helpers
func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	code := StatusFor(err)
	if code >= http.StatusInternalServerError {
		s.log.Error("Request failed", "err", err, "status", code)
	} else {
		s.log.Debug("Request rejected", "err", err, "status", code)
	}
	s.writeError(w, err.Error(), code)
}

func (s *Server) writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		s.log.Error("Unable to encode error response", "err", err)
	}
}
