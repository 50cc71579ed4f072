package server

import (
	"github.com/cloudblocks/tfgen/catalog"
	"github.com/cloudblocks/tfgen/validation"
)

// An Error is a json encoded error message from the api.
type Error struct {
	Msg string `json:"message"`
}

type problem struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func problemsFrom(list []validation.Problem) []problem {
	if len(list) == 0 {
		return nil
	}
	out := make([]problem, len(list))
	for i, p := range list {
		out[i] = problem{Field: p.Field, Message: p.Message}
	}
	return out
}

type validateResponse struct {
	Valid    bool      `json:"valid"`
	Problems []problem `json:"problems,omitempty"`
}

type buildResponse struct {
	Cloud   string         `json:"cloud"`
	Regions []regionOutput `json:"regions"`
}

type regionOutput struct {
	Region    string   `json:"region"`
	Provider  string   `json:"provider"`
	Main      string   `json:"main"`
	Variables string   `json:"variables,omitempty"`
	Outputs   string   `json:"outputs,omitempty"`
	Lines     []string `json:"lines"`
}

type searchResponse struct {
	Keys      []string           `json:"keys"`
	Resources []catalog.Resource `json:"resources,omitempty"`
}
