package config

import "sort"

// Cloud is the root of a mapping file. It groups the resources of every
// region under a single cloud identifier.
type Cloud struct {
	// Cloud is the cloud identifier, for example "aws".
	Cloud string `json:"cloud" yaml:"cloud" validate:"required"`

	// Regions maps a region name to the resources in that region. Resource
	// ids must be unique within a region and bindings may only refer to
	// resources in the same region.
	Regions map[string][]Resource `json:"regions,omitempty" yaml:"regions,omitempty" validate:"dive,keys,required,endkeys,dive"`
}

// Resource is a single user specified resource.
type Resource struct {
	ID       string                 `json:"id" yaml:"id" validate:"required,resource_id"`
	Category string                 `json:"category" yaml:"category" validate:"required"`
	Bindings []Binding              `json:"bindings,omitempty" yaml:"bindings,omitempty" validate:"dive"`
	Params   map[string]interface{} `json:"params,omitempty" yaml:"params,omitempty"`
}

// Binding is a directed relationship from the resource it is declared on to
// the resource with the given id.
type Binding struct {
	ID        string `json:"id" yaml:"id" validate:"required,resource_id"`
	Direction string `json:"direction" yaml:"direction" validate:"required,direction"`
}

// RegionNames returns the names of the regions in the record, sorted
// lexicographically.
func (c Cloud) RegionNames() []string {
	names := make([]string, 0, len(c.Regions))
	for name := range c.Regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
