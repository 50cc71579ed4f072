// Package lower expands high-level resources into concrete infrastructure
// nodes.
//
// Every resource is lowered at most once. Rules may lower resources they are
// bound to before the resource itself is visited; the result preserves the
// order in which resources were first lowered, which is not necessarily
// dependency order.
//
// Lowering happens in two steps. Rules record pending entries that may still
// change (networks are promoted to have public or private subnets as
// consumers are added). Once every resource has been visited, entries are
// finalized into immutable nodes in dependency order.
package lower

import (
	"sort"

	"github.com/cloudblocks/tfgen/graph"
	"github.com/cloudblocks/tfgen/infra"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// An IDGenerator generates unique identifiers.
type IDGenerator interface {
	GenerateID() string
}

// The IDGeneratorFunc is an adapter to allow the use of an ordinary function
// as an IDGenerator.
type IDGeneratorFunc func() string

// GenerateID generates an id by calling fn.
func (fn IDGeneratorFunc) GenerateID() string { return fn() }

// Lowerer lowers the resources of a region.
type Lowerer struct {
	// IDs generates uids for implicit nodes. If not set, ksuids are used.
	IDs IDGenerator

	// Names generates bucket and cluster names that are not configured.
	// Generated names must be valid lowercase bucket names. If not set,
	// random uuids are used.
	Names IDGenerator

	// Logger logs lowering decisions. If not set, logs are discarded.
	Logger *zap.Logger
}

// Lower lowers all resources in the region. Nodes are returned in the order
// they were first lowered.
//
// Any error aborts lowering; no nodes are returned for a partially valid
// region.
func (l *Lowerer) Lower(region *graph.Region) ([]infra.Node, error) {
	s := &state{
		Lowerer:  l,
		region:   region,
		entries:  make(map[string]*entry),
		computes: make(map[string]*computeEntry),
		logger:   l.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.logger = s.logger.With(zap.String("region", region.Name))

	for _, res := range region.Resources() {
		if err := s.lower(res); err != nil {
			return nil, err
		}
	}
	return s.finalize()
}

func (l *Lowerer) generateID() string {
	if l.IDs == nil {
		return ksuid.New().String()
	}
	return l.IDs.GenerateID()
}

func (l *Lowerer) generateName(prefix string) string {
	if l.Names == nil {
		return prefix + "-" + uuid.New().String()
	}
	return prefix + "-" + l.Names.GenerateID()
}

// An entry is a node that has been claimed during lowering but not yet
// built.
type entry struct {
	id   int64
	uid  string
	deps []*entry

	// build constructs the node. All deps have been built when build is
	// called.
	build func() (infra.Node, error)
	node  infra.Node
}

// ID implements gonum's graph.Node.
func (e *entry) ID() int64 { return e.id }

func (e *entry) dependOn(deps ...*entry) {
	e.deps = append(e.deps, deps...)
}

type state struct {
	*Lowerer

	region   *graph.Region
	logger   *zap.Logger
	order    []*entry
	entries  map[string]*entry
	computes map[string]*computeEntry
}

// claim reserves the slot for uid. The returned entry has no build function
// yet; the caller sets it.
func (s *state) claim(uid string) *entry {
	e := &entry{id: int64(len(s.order)), uid: uid}
	s.order = append(s.order, e)
	s.entries[uid] = e
	return e
}

// lower dispatches res to the rule for its category.
func (s *state) lower(res *graph.Resource) error {
	if _, done := s.entries[res.UID]; done {
		return nil
	}
	switch res.Category {
	case graph.Compute:
		return s.lowerCompute(res)
	case graph.ContainerCompute:
		return s.lowerContainer(res)
	case graph.Storage:
		_, err := s.lowerStorage(res)
		return err
	case graph.Database:
		return &UnsupportedCategoryError{UID: res.UID, Category: res.Category}
	case graph.Internet, graph.ThirdParty:
		// Markers read by other rules; nothing to create.
		return nil
	default:
		panic("lower: unknown category " + res.Category.String())
	}
}

// finalize builds all entries in dependency order and returns the nodes in
// the order they were claimed.
func (s *state) finalize() ([]infra.Node, error) {
	g := simple.NewDirectedGraph()
	for _, e := range s.order {
		g.AddNode(e)
	}
	for _, e := range s.order {
		for _, d := range e.deps {
			if d == e {
				return nil, &CycleError{UIDs: []string{e.uid}}
			}
			g.SetEdge(g.NewEdge(d, e))
		}
	}

	sorted, err := topo.SortStabilized(g, nil)
	if err != nil {
		if u, ok := err.(topo.Unorderable); ok {
			return nil, cycleError(u)
		}
		return nil, errors.Wrap(err, "sort lowered resources")
	}

	for _, n := range sorted {
		e := n.(*entry)
		node, err := e.build()
		if err != nil {
			return nil, errors.Wrapf(err, "build %s", e.uid)
		}
		e.node = node
		s.logger.Debug("Built node", zap.String("uid", node.UID()), zap.String("kind", string(node.Kind())))
	}

	out := make([]infra.Node, len(s.order))
	for i, e := range s.order {
		out[i] = e.node
	}
	return out, nil
}

func cycleError(u topo.Unorderable) *CycleError {
	var uids []string
	for _, component := range u {
		for _, n := range component {
			uids = append(uids, n.(*entry).uid)
		}
	}
	sort.Strings(uids)
	return &CycleError{UIDs: uids}
}

var _ gonum.Node = (*entry)(nil)
