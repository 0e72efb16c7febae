package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/oaistruct/internal/mets"
	"github.com/lehigh-university-libraries/oaistruct/internal/models"
	"github.com/lehigh-university-libraries/oaistruct/internal/oai"
	"github.com/lehigh-university-libraries/oaistruct/internal/query"
)

const record = `<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/"><GetRecord><record><metadata>
<mets:mets xmlns:mets="http://www.loc.gov/METS/" xmlns:mods="http://www.loc.gov/mods/v3" xmlns:xlink="http://www.w3.org/1999/xlink">
  <mets:dmdSec ID="DMD_1"><mets:mdWrap><mets:xmlData><mods:mods>
    <mods:titleInfo><mods:title>On Structure</mods:title></mods:titleInfo>
    <mods:name type="personal"><mods:namePart type="given">Jane</mods:namePart><mods:namePart type="family">Doe</mods:namePart></mods:name>
  </mods:mods></mets:xmlData></mets:mdWrap></mets:dmdSec>
  <mets:structMap TYPE="LOGICAL">
    <mets:div ID="LOG_0" TYPE="Monograph">
      <mets:div ID="LOG_1" TYPE="Chapter" DMDID="DMD_1"/>
    </mets:div>
  </mets:structMap>
  <mets:structMap TYPE="PHYSICAL">
    <mets:div ID="PHYS_0" TYPE="physSequence">
      <mets:div ID="PHYS_1" ORDER="5" ORDERLABEL="1" CONTENTIDS="urn:nbn:1"/>
      <mets:div ID="PHYS_2" ORDER="6" ORDERLABEL="2"/>
    </mets:div>
  </mets:structMap>
  <mets:structLink>
    <mets:smLink xlink:from="LOG_1" xlink:to="PHYS_1"/>
    <mets:smLink xlink:from="LOG_1" xlink:to="PHYS_2"/>
  </mets:structLink>
</mets:mets></metadata></record></GetRecord></OAI-PMH>`

type fakeFetcher struct {
	docs map[string]*query.Document
	errs map[string]error
	last string
}

func (f *fakeFetcher) GetRecord(ctx context.Context, id string) (*query.Document, error) {
	f.last = id
	if err, ok := f.errs[id]; ok {
		return nil, err
	}
	if doc, ok := f.docs[id]; ok {
		return doc, nil
	}
	return nil, oai.OAIError{Code: "idDoesNotExist", Message: "unknown id"}
}

func newTestServer(t *testing.T) (*Server, *fakeFetcher) {
	t.Helper()
	fetcher := &fakeFetcher{
		docs: map[string]*query.Document{
			"rec1":     query.MustParse(record),
			"oai:x/y":  query.MustParse(record),
			"100%":     query.MustParse(record),
			"empty":    query.MustParse(`<OAI-PMH><GetRecord/></OAI-PMH>`),
			"badorder": query.MustParse(strings.Replace(record, `ORDER="5"`, `ORDER="five"`, 1)),
		},
		errs: map[string]error{
			"down":    &oai.TransportError{URL: "http://example.com", StatusCode: http.StatusServiceUnavailable},
			"garbage": &oai.MalformedXMLError{URL: "http://example.com", Err: query.ErrMalformedXML},
			"bad":     oai.OAIError{Code: "badArgument", Message: "bad"},
			"boom":    errors.New("boom"),
		},
	}
	return New(fetcher, mets.PairPositional, slog.New(slog.NewTextHandler(io.Discard, nil))), fetcher
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealthcheck(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/healthcheck")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("Expected 200 OK, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestStructures(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/records/rec1/structures?type=Chapter")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var elements []models.StructuralElement
	if err := json.Unmarshal(rec.Body.Bytes(), &elements); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	want := []models.StructuralElement{{
		Identifiers: models.Identifiers{LogicalID: "LOG_1", MetadataID: "DMD_1", PhysicalIDs: []string{"PHYS_1", "PHYS_2"}},
		Type:        "Chapter",
		Title:       "On Structure",
		Authors:     []string{"Jane Doe"},
		PageLabel:   "1-2",
	}}
	if !reflect.DeepEqual(elements, want) {
		t.Errorf("Expected %+v, got %+v", want, elements)
	}
}

func TestStructuresTypeFilter(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		query    string
		expected int
	}{
		{query: "", expected: 2},
		{query: "?type=Chapter&type=Monograph", expected: 2},
		{query: "?type=Chapter,Monograph", expected: 2},
		{query: "?type=Monograph", expected: 1},
		{query: "?type=Article", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := get(t, s, "/api/records/rec1/structures"+tt.query)
			var elements []models.StructuralElement
			if err := json.Unmarshal(rec.Body.Bytes(), &elements); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if elements == nil {
				t.Fatal("Expected a JSON array, got null")
			}
			if len(elements) != tt.expected {
				t.Errorf("Expected %d elements, got %d", tt.expected, len(elements))
			}
		})
	}
}

func TestStructuresFormats(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/api/records/rec1/structures?format=yaml")
	if ct := rec.Header().Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("Expected application/yaml, got %s", ct)
	}
	if !strings.Contains(rec.Body.String(), "title: On Structure") {
		t.Errorf("Expected YAML body, got %s", rec.Body.String())
	}

	rec = get(t, s, "/api/records/rec1/structures?format=csv")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestPages(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/records/rec1/pages?type=Chapter")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var pages []models.PageInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &pages); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	want := []models.PageInfo{{
		LogicalID:    "LOG_1",
		OrderNumbers: []string{"00000005", "00000006"},
		URNs:         []string{"urn:nbn:1", ""},
		FirstLabel:   "1",
		LastLabel:    "2",
	}}
	if !reflect.DeepEqual(pages, want) {
		t.Errorf("Expected %+v, got %+v", want, pages)
	}
}

func TestEscapedIdentifier(t *testing.T) {
	s, fetcher := newTestServer(t)

	tests := []struct {
		target   string
		expected string
	}{
		{target: "/api/records/oai:x%2Fy/structures", expected: "oai:x/y"},
		{target: "/api/records/100%25/structures", expected: "100%"},
		{target: "/api/records/rec1/pages", expected: "rec1"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, s, tt.target)
			if rec.Code != http.StatusOK {
				t.Errorf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if fetcher.last != tt.expected {
				t.Errorf("Expected fetcher to receive %s, got %s", tt.expected, fetcher.last)
			}
		})
	}
}

func TestErrorStatus(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		target   string
		expected int
	}{
		{target: "/api/records/down/structures", expected: http.StatusBadGateway},
		{target: "/api/records/garbage/structures", expected: http.StatusBadGateway},
		{target: "/api/records/missing/structures", expected: http.StatusNotFound},
		{target: "/api/records/bad/structures", expected: http.StatusBadRequest},
		{target: "/api/records/boom/structures", expected: http.StatusInternalServerError},
		{target: "/api/records/empty/structures", expected: http.StatusNotFound},
		{target: "/api/records/empty/pages", expected: http.StatusNotFound},
		{target: "/api/records/badorder/pages", expected: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, s, tt.target)
			if rec.Code != tt.expected {
				t.Errorf("Expected %d, got %d: %s", tt.expected, rec.Code, rec.Body.String())
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Errorf("Expected JSON error body, got %s", rec.Body.String())
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	get(t, s, "/api/records/rec1/structures")

	rec := get(t, s, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"oaistruct_fetch_total", "oaistruct_http_requests_total", "oaistruct_structures_resolved_total"} {
		if !strings.Contains(body, name) {
			t.Errorf("Expected metrics to include %s", name)
		}
	}
}
