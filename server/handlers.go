package server

import (
	"net/http"
	"strconv"

	"github.com/cloudblocks/tfgen/catalog"
	"github.com/cloudblocks/tfgen/config"
	"github.com/cloudblocks/tfgen/generator"
	"github.com/cloudblocks/tfgen/validation"
	"go.uber.org/zap"
)

func (s *Server) handleValidate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.requireMethod(w, r, http.MethodPost) {
			return
		}
		var record config.Cloud
		if !s.decode(w, r, &record) {
			return
		}
		if problems := s.validate(record); len(problems) > 0 {
			s.respond(w, r, validateResponse{Valid: false, Problems: problems}, http.StatusUnprocessableEntity)
			return
		}
		s.respond(w, r, validateResponse{Valid: true}, http.StatusOK)
	}
}

func (s *Server) handleBuild() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.requireMethod(w, r, http.MethodPost) {
			return
		}
		var record config.Cloud
		if !s.decode(w, r, &record) {
			return
		}
		if problems := s.validate(record); len(problems) > 0 {
			s.respond(w, r, validateResponse{Valid: false, Problems: problems}, http.StatusUnprocessableEntity)
			return
		}

		logger := loggerFromContext(r.Context(), s.logger)
		out, err := s.Generator.Generate(r.Context(), record)
		if err != nil {
			switch {
			case generator.IsUserError(err):
				logger.Debug("Invalid input", zap.Error(err))
				s.respond(w, r, Error{Msg: err.Error()}, http.StatusUnprocessableEntity)
			case generator.IsTemplateMissing(err):
				logger.Error("Template missing", zap.Error(err))
				s.respond(w, r, Error{Msg: "Template not available"}, http.StatusInternalServerError)
			default:
				logger.Error("Could not generate configuration", zap.Error(err))
				s.respond(w, r, Error{Msg: "Could not generate configuration"}, http.StatusServiceUnavailable)
			}
			return
		}

		resp := buildResponse{Cloud: out.Cloud}
		for _, reg := range out.Regions {
			resp.Regions = append(resp.Regions, regionOutput{
				Region:    reg.Region,
				Provider:  reg.Preamble,
				Main:      reg.Main,
				Variables: reg.Variables,
				Outputs:   reg.Outputs,
				Lines:     reg.Lines(),
			})
		}
		s.respond(w, r, resp, http.StatusOK)
	}
}

func (s *Server) handleSearch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.requireMethod(w, r, http.MethodGet) {
			return
		}
		q := r.URL.Query()
		keysOnly := false
		if v := q.Get("keys_only"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				s.respond(w, r, Error{Msg: "keys_only must be a boolean"}, http.StatusBadRequest)
				return
			}
			keysOnly = b
		}

		c := s.Catalog
		if c == nil {
			c = catalog.Builtin()
		}
		found, err := c.Search(catalog.Query{
			Keyword: q.Get("keyword"),
			Cloud:   q.Get("cloud"),
			Tags:    q["tag"],
		})
		if err == catalog.ErrNoResults {
			s.respond(w, r, Error{Msg: "No resources found matching your search"}, http.StatusNotFound)
			return
		}
		if err != nil {
			loggerFromContext(r.Context(), s.logger).Error("Search failed", zap.Error(err))
			s.respond(w, r, Error{Msg: "Search failed"}, http.StatusInternalServerError)
			return
		}

		resp := searchResponse{}
		for _, res := range found {
			resp.Keys = append(resp.Keys, res.Key)
		}
		if !keysOnly {
			resp.Resources = found
		}
		s.respond(w, r, resp, http.StatusOK)
	}
}

func (s *Server) validate(record config.Cloud) []problem {
	v := s.Validator
	if v == nil {
		v = validation.New(nil)
	}
	return problemsFrom(validation.Problems(v.Validate(record)))
}
