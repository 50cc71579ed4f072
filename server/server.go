// Package server provides the http api.
//
// Routes are versioned: /v1/validate, /v1/build and /v1/search. Requests for
// an unknown version are rejected with 403, unknown actions with 404.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/cloudblocks/tfgen/catalog"
	"github.com/cloudblocks/tfgen/generator"
	"github.com/cloudblocks/tfgen/validation"
	"go.uber.org/zap"
)

// Version is the current api version.
const Version = "v1"

// Server is the tfgen http api server.
type Server struct {
	Generator *generator.Generator
	Validator *validation.Validator
	Catalog   *catalog.Catalog

	// Logger logs requests. If not set, logs are discarded.
	Logger *zap.Logger

	once    sync.Once
	logger  *zap.Logger
	actions map[string]http.HandlerFunc
	handler http.Handler
}

func (s *Server) setupRoutes() {
	s.logger = s.Logger
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.actions = map[string]http.HandlerFunc{
		"validate": s.handleValidate(),
		"build":    s.handleBuild(),
		"search":   s.handleSearch(),
	}
	s.handler = logMiddleware(s.logger)(s.route)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.once.Do(s.setupRoutes)
	s.handler.ServeHTTP(w, r)
}

func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 2 {
		s.respond(w, r, Error{Msg: "Not found"}, http.StatusNotFound)
		return
	}
	if parts[0] != Version {
		s.respond(w, r, Error{Msg: "Unsupported api version " + parts[0]}, http.StatusForbidden)
		return
	}
	h, ok := s.actions[parts[1]]
	if !ok {
		s.respond(w, r, Error{Msg: "Unknown action " + parts[1]}, http.StatusNotFound)
		return
	}
	h(w, r)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, data interface{}, status int) {
	body, err := json.Marshal(data)
	if err != nil {
		loggerFromContext(r.Context(), s.logger).Error("Could not encode json response", zap.Error(err))
		http.Error(w, "Could not encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// decode decodes a json request body. False is returned if the request
// could not be decoded, in which case the response has been written.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		s.respond(w, r, Error{Msg: "No body"}, http.StatusBadRequest)
		return false
	}
	defer func() { _ = r.Body.Close() }()
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		s.respond(w, r, Error{Msg: "Invalid content type"}, http.StatusUnsupportedMediaType)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		loggerFromContext(r.Context(), s.logger).Debug("Could not decode body", zap.Error(err))
		s.respond(w, r, Error{Msg: "Could not decode body"}, http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		s.respond(w, r, Error{Msg: "Method not allowed"}, http.StatusMethodNotAllowed)
		return false
	}
	return true
}
