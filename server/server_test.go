package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudblocks/tfgen/catalog"
	"github.com/cloudblocks/tfgen/config"
	"github.com/cloudblocks/tfgen/generator"
	"github.com/cloudblocks/tfgen/lower"
	"github.com/cloudblocks/tfgen/template"
	"github.com/cloudblocks/tfgen/validation"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"
)

func testServer(t *testing.T) *Server {
	settings := config.DefaultSettings()
	return &Server{
		Generator: &generator.Generator{
			Settings: settings,
			Store:    template.Builtin{},
			Cache:    &template.Cache{},
			IDs:      lower.IDGeneratorFunc(func() string { return "1" }),
			Logger:   zaptest.NewLogger(t),
		},
		Validator: validation.New(settings),
		Catalog:   catalog.Builtin(),
		Logger:    zaptest.NewLogger(t),
	}
}

func jsonRequest(method, path, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func checkStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("Status code does not match; got %d, want %d\nBody: %s", rec.Code, want, rec.Body.String())
	}
}

func TestServer_ServeHTTP(t *testing.T) {
	s := &Server{}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/notfound", nil)
	s.ServeHTTP(w, r) // Should not panic
	checkStatus(t, w, http.StatusNotFound)
}

func TestServer_Routing(t *testing.T) {
	tests := []struct {
		name string
		req  *http.Request
		want int
	}{
		{"UnknownVersion", jsonRequest(http.MethodPost, "/v2/build", "{}"), http.StatusForbidden},
		{"UnknownAction", jsonRequest(http.MethodPost, "/v1/deploy", "{}"), http.StatusNotFound},
		{"Root", jsonRequest(http.MethodGet, "/", ""), http.StatusNotFound},
		{"ValidateGet", jsonRequest(http.MethodGet, "/v1/validate", ""), http.StatusMethodNotAllowed},
		{"SearchPost", jsonRequest(http.MethodPost, "/v1/search", "{}"), http.StatusMethodNotAllowed},
	}
	s := testServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, tt.req)
			checkStatus(t, rec, tt.want)
			if rec.Header().Get("X-Request-Id") == "" {
				t.Error("Request id not set")
			}
		})
	}
}

const validRecord = `{
	"cloud": "aws",
	"regions": {"us-west-1": [
		{"id": "web", "category": "compute",
		 "bindings": [{"id": "files", "direction": "to"}],
		 "params": {"aws_ami": "ami-1", "aws_instance_type": "t2.micro"}},
		{"id": "files", "category": "storage"}
	]}
}`

func TestServer_HandleValidate(t *testing.T) {
	tests := []struct {
		name     string
		req      *http.Request
		status   int
		problems int
	}{
		{
			name:   "Valid",
			req:    jsonRequest(http.MethodPost, "/v1/validate", validRecord),
			status: http.StatusOK,
		},
		{
			name:     "Invalid",
			req:      jsonRequest(http.MethodPost, "/v1/validate", `{"cloud": "azure", "regions": {"r": [{"id": "a"}]}}`),
			status:   http.StatusUnprocessableEntity,
			problems: 2,
		},
		{
			name: "NotJSON",
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/v1/validate", strings.NewReader("cloud: aws"))
				r.Header.Set("Content-Type", "text/yaml")
				return r
			}(),
			status: http.StatusUnsupportedMediaType,
		},
		{
			name:   "InvalidBody",
			req:    jsonRequest(http.MethodPost, "/v1/validate", "invalid"),
			status: http.StatusBadRequest,
		},
	}
	s := testServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, tt.req)
			checkStatus(t, rec, tt.status)
			if tt.status != http.StatusOK && tt.status != http.StatusUnprocessableEntity {
				return
			}
			var resp validateResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("Decode response: %v", err)
			}
			if resp.Valid != (tt.problems == 0) {
				t.Errorf("Valid = %t, want %t", resp.Valid, tt.problems == 0)
			}
			if len(resp.Problems) != tt.problems {
				t.Errorf("Got %d problems, want %d: %v", len(resp.Problems), tt.problems, resp.Problems)
			}
		})
	}
}

func TestServer_HandleBuild(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, jsonRequest(http.MethodPost, "/v1/build", validRecord))
	checkStatus(t, rec, http.StatusOK)

	var resp buildResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Decode response: %v", err)
	}
	if resp.Cloud != "aws" || len(resp.Regions) != 1 {
		t.Fatalf("Unexpected response %+v", resp)
	}
	reg := resp.Regions[0]
	for _, want := range []string{
		`resource "aws_vpc" "network-1"`,
		`resource "aws_s3_bucket" "files"`,
		`resource "aws_instance" "web"`,
	} {
		if !strings.Contains(reg.Main, want) {
			t.Errorf("Main does not contain %s", want)
		}
	}
	if len(reg.Lines) == 0 || !strings.HasPrefix(reg.Lines[0], "terraform") {
		t.Errorf("Lines do not start with preamble: %q", reg.Lines)
	}
}

func TestServer_HandleBuild_status(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		store  template.Store
		status int
	}{
		{
			name:   "Empty",
			body:   `{}`,
			status: http.StatusUnprocessableEntity,
		},
		{
			name: "BadDirection",
			body: `{"cloud": "aws", "regions": {"us-west-1": [
				{"id": "a", "category": "storage", "bindings": [{"id": "b", "direction": "sideways"}]},
				{"id": "b", "category": "storage"}
			]}}`,
			status: http.StatusUnprocessableEntity,
		},
		{
			name: "BindingRule",
			body: `{"cloud": "aws", "regions": {"us-west-1": [
				{"id": "a", "category": "storage", "bindings": [{"id": "b", "direction": "to"}]},
				{"id": "b", "category": "storage"}
			]}}`,
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "NoRegions",
			body:   `{"cloud": "aws"}`,
			status: http.StatusOK,
		},
		{
			name:   "TemplateMissing",
			body:   validRecord,
			store:  template.Mux{},
			status: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testServer(t)
			if tt.store != nil {
				s.Generator.Store = tt.store
			}
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, jsonRequest(http.MethodPost, "/v1/build", tt.body))
			checkStatus(t, rec, tt.status)
		})
	}
}

func TestServer_HandleSearch(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
		keys   []string
		full   bool
	}{
		{name: "Keyword", query: "keyword=docker-container", status: http.StatusOK, keys: []string{"docker"}, full: true},
		{name: "KeysOnly", query: "keyword=storage&keys_only=true", status: http.StatusOK, keys: []string{"s3", "website"}},
		{name: "Tags", query: "tag=storage&tag=website", status: http.StatusOK, keys: []string{"website"}, full: true},
		{name: "NoResults", query: "keyword=mainframe", status: http.StatusNotFound},
		{name: "InvalidKeysOnly", query: "keys_only=maybe", status: http.StatusBadRequest},
	}
	s := testServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/search?"+tt.query, nil))
			checkStatus(t, rec, tt.status)
			if tt.status != http.StatusOK {
				return
			}
			var resp searchResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("Decode response: %v", err)
			}
			if diff := cmp.Diff(tt.keys, resp.Keys); diff != "" {
				t.Errorf("Keys (-want, +got)\n%s", diff)
			}
			if got := len(resp.Resources) > 0; got != tt.full {
				t.Errorf("Resources included = %t, want %t", got, tt.full)
			}
		})
	}
}
