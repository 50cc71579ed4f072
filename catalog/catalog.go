// Package catalog lists the resources that can be used in mapping files.
package catalog

import (
	"bytes"
	_ "embed"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed resources.yaml
var builtin []byte

// AllClouds in a resource's clouds means the resource is available
// everywhere.
const AllClouds = "all"

// ErrNoResults is returned when a search matches nothing.
var ErrNoResults = errors.New("no resources found matching your search")

// A Param describes a resource parameter.
type Param struct {
	Name        string `yaml:"param" json:"param"`
	Description string `yaml:"description" json:"description"`
	DataType    string `yaml:"data_type" json:"data_type"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Default     string `yaml:"default,omitempty" json:"default,omitempty"`
}

// A Resource is a catalog entry.
type Resource struct {
	Key         string   `yaml:"key" json:"key"`
	Aliases     []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Category    string   `yaml:"category" json:"category"`
	Clouds      []string `yaml:"clouds" json:"clouds"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Params      []Param  `yaml:"params,omitempty" json:"params,omitempty"`
}

// YAML returns the resource as a yaml document.
func (r Resource) YAML() (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return "", errors.Wrap(err, "encode")
	}
	if err := enc.Close(); err != nil {
		return "", errors.Wrap(err, "encode")
	}
	return buf.String(), nil
}

func (r Resource) availableIn(cloud string) bool {
	for _, c := range r.Clouds {
		if c == AllClouds || strings.EqualFold(c, cloud) {
			return true
		}
	}
	return false
}

func (r Resource) hasTag(tag string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// matches reports whether the lowercase keyword matches the resource.
func (r Resource) matches(keyword string) bool {
	if r.Key == keyword || strings.Contains(r.Category, keyword) {
		return true
	}
	for _, list := range [][]string{r.Aliases, r.Tags, r.Clouds} {
		for _, s := range list {
			if strings.ToLower(s) == keyword {
				return true
			}
		}
	}
	if strings.Contains(strings.ToLower(r.Description), keyword) {
		return true
	}
	for _, p := range r.Params {
		if p.Name == keyword {
			return true
		}
	}
	return false
}

// A Catalog is a set of resources.
type Catalog struct {
	resources []Resource
}

// Parse parses a yaml list of resources.
func Parse(data []byte) (*Catalog, error) {
	var resources []Resource
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&resources); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}
	seen := make(map[string]bool)
	for i, r := range resources {
		if r.Key == "" {
			return nil, errors.Errorf("resource %d has no key", i)
		}
		key := strings.ToLower(r.Key)
		if seen[key] {
			return nil, errors.Errorf("duplicate resource %q", r.Key)
		}
		seen[key] = true
		resources[i].Key = key
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i].Key < resources[j].Key })
	return &Catalog{resources: resources}, nil
}

// Builtin returns the catalog of resources supported by the generator.
func Builtin() *Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns a resource by key or alias.
func (c *Catalog) Get(key string) (Resource, bool) {
	key = strings.ToLower(key)
	for _, r := range c.resources {
		if r.Key == key {
			return r, true
		}
		for _, a := range r.Aliases {
			if a == key {
				return r, true
			}
		}
	}
	return Resource{}, false
}

// Keys returns the keys of all resources, sorted.
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.resources))
	for i, r := range c.resources {
		out[i] = r.Key
	}
	return out
}

// A Query filters catalog resources. Empty fields match everything.
type Query struct {
	Keyword string
	Cloud   string
	Tags    []string // All tags must match.
}

// Search returns the resources matching the query, sorted by key. Returns
// ErrNoResults if nothing matches.
func (c *Catalog) Search(q Query) ([]Resource, error) {
	keyword := strings.ToLower(q.Keyword)
	var out []Resource
outer:
	for _, r := range c.resources {
		if keyword != "" && !r.matches(keyword) {
			continue
		}
		if q.Cloud != "" && !r.availableIn(q.Cloud) {
			continue
		}
		for _, t := range q.Tags {
			if !r.hasTag(t) {
				continue outer
			}
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, ErrNoResults
	}
	return out, nil
}
