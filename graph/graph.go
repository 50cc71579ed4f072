// Package graph holds the high-level resource graph built from a validated
// mapping record.
//
// Resources are grouped per region. Bindings between resources are graph
// edges; a binding never owns its target.
package graph

import (
	"sort"

	"github.com/cloudblocks/tfgen/config"
	"github.com/pkg/errors"
)

// Params is the parameter bag of a resource. Values are scalars or nested
// maps and lists as decoded from the mapping file.
type Params map[string]interface{}

// Get returns a parameter value. Nil values are reported as absent.
func (p Params) Get(key string) (interface{}, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// A Resource is a high-level node in the graph.
type Resource struct {
	UID      string
	Category Category
	Params   Params
	Bindings []Binding
}

// A Binding is a directed edge from the resource that declares it to Target.
type Binding struct {
	direction Direction
	Target    *Resource
}

// NewBinding creates a binding. The direction cannot be changed after
// creation.
func NewBinding(direction Direction, target *Resource) Binding {
	return Binding{direction: direction, Target: target}
}

// Direction returns the direction of the binding.
func (b Binding) Direction() Direction { return b.direction }

// BindingsTo returns the bindings whose target has one of the given
// categories, in declaration order.
func (r *Resource) BindingsTo(categories ...Category) []Binding {
	var out []Binding
	for _, b := range r.Bindings {
		for _, c := range categories {
			if b.Target.Category == c {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// HasBindingTo reports whether any binding targets one of the given
// categories.
func (r *Resource) HasBindingTo(categories ...Category) bool {
	return len(r.BindingsTo(categories...)) > 0
}

// A Region contains the resources of a single region.
type Region struct {
	Name string

	resources []*Resource
	byUID     map[string]*Resource
}

// NewRegion builds the resources for a region. Resources are created in a
// first pass and bindings resolved in a second pass, so bindings may refer to
// resources declared later in the list.
func NewRegion(name string, records []config.Resource) (*Region, error) {
	r := &Region{
		Name:      name,
		resources: make([]*Resource, 0, len(records)),
		byUID:     make(map[string]*Resource, len(records)),
	}

	for _, rec := range records {
		if rec.ID == "" {
			return nil, errors.Errorf("region %s: resource has no id", name)
		}
		if _, exists := r.byUID[rec.ID]; exists {
			return nil, errors.Errorf("region %s: resource %q already exists", name, rec.ID)
		}
		cat, err := ParseCategory(rec.Category)
		if err != nil {
			return nil, errors.Wrapf(err, "region %s: resource %q", name, rec.ID)
		}
		res := &Resource{
			UID:      rec.ID,
			Category: cat,
			Params:   Params(rec.Params),
		}
		r.resources = append(r.resources, res)
		r.byUID[rec.ID] = res
	}

	for i, rec := range records {
		res := r.resources[i]
		for _, b := range rec.Bindings {
			target, ok := r.byUID[b.ID]
			if !ok {
				return nil, &ResolutionError{Region: name, UID: rec.ID, Target: b.ID}
			}
			dir, err := ParseDirection(b.Direction)
			if err != nil {
				return nil, errors.Wrapf(err, "region %s: resource %q", name, rec.ID)
			}
			res.Bindings = append(res.Bindings, NewBinding(dir, target))
		}
	}

	return r, nil
}

// Lookup returns the resource with the given uid.
func (r *Region) Lookup(uid string) (*Resource, error) {
	res, ok := r.byUID[uid]
	if !ok {
		return nil, &NotFoundError{Region: r.Name, UID: uid}
	}
	return res, nil
}

// Resources returns all resources in the order they were declared.
func (r *Region) Resources() []*Resource {
	out := make([]*Resource, len(r.resources))
	copy(out, r.resources)
	return out
}

// A Cloud groups regions under a single cloud identifier.
type Cloud struct {
	Name string

	regions map[string]*Region
}

// New builds the graph for a mapping record.
func New(record config.Cloud) (*Cloud, error) {
	if record.Cloud == "" {
		return nil, errors.New("cloud not set")
	}
	c := &Cloud{
		Name:    record.Cloud,
		regions: make(map[string]*Region, len(record.Regions)),
	}
	for _, name := range record.RegionNames() {
		r, err := NewRegion(name, record.Regions[name])
		if err != nil {
			return nil, err
		}
		c.regions[name] = r
	}
	return c, nil
}

// Region returns a region by name.
func (c *Cloud) Region(name string) (*Region, bool) {
	r, ok := c.regions[name]
	return r, ok
}

// Regions returns all regions sorted by name.
func (c *Cloud) Regions() []*Region {
	out := make([]*Region, 0, len(c.regions))
	for _, r := range c.regions {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
