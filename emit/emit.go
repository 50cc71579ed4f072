// Package emit renders concrete nodes into configuration text.
//
// Nodes are emitted in dependency order: every node is rendered after all
// nodes it depends on and each node is rendered exactly once, no matter how
// many nodes depend on it. Each node contributes to three streams: main
// configuration, variables and outputs.
package emit

import (
	"fmt"
	"strings"

	"github.com/cloudblocks/tfgen/config"
	"github.com/cloudblocks/tfgen/infra"
	"github.com/cloudblocks/tfgen/template"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// TemplateMap maps node kinds to template references.
type TemplateMap interface {
	Template(kind string) (config.TemplateRef, bool)
}

// A Resolver returns raw template text. Templates must be loaded before
// emitting; Resolve does not perform I/O.
type Resolver interface {
	Resolve(uri string) (string, error)
}

// Result is the rendered configuration.
type Result struct {
	Main      string
	Variables string
	Outputs   string
}

// CycleError is returned when nodes depend on each other.
type CycleError struct {
	UIDs []string // Nodes in the cycle, in dependency order.
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %s -> %s", strings.Join(e.UIDs, " -> "), e.UIDs[0])
}

// NoTemplateError is returned when no template is configured for a kind of
// node.
type NoTemplateError struct {
	Kind infra.Kind
}

func (e *NoTemplateError) Error() string {
	return fmt.Sprintf("no template configured for %s", e.Kind)
}

// URIs returns the template references needed to render the nodes and their
// dependencies, in the order they are first needed.
func URIs(templates TemplateMap, nodes []infra.Node) ([]string, error) {
	var out []string
	visited := make(map[infra.Node]bool)
	seenKind := make(map[infra.Kind]bool)
	seenURI := make(map[string]bool)
	var visit func(n infra.Node) error
	visit = func(n infra.Node) error {
		if visited[n] {
			return nil
		}
		visited[n] = true
		if !seenKind[n.Kind()] {
			seenKind[n.Kind()] = true
			ref, ok := templates.Template(string(n.Kind()))
			if !ok {
				return &NoTemplateError{Kind: n.Kind()}
			}
			for _, u := range ref.URIs() {
				if !seenURI[u] {
					seenURI[u] = true
					out = append(out, u)
				}
			}
		}
		for _, d := range n.DependsOn() {
			if err := visit(d); err != nil {
				return err
			}
		}
		return nil
	}
	for _, n := range nodes {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// An Emitter renders nodes.
type Emitter struct {
	Templates TemplateMap
	Resolver  Resolver

	// Logger logs emitted nodes. If not set, logs are discarded.
	Logger *zap.Logger
}

// Emit renders the nodes and their dependencies. The nodes may be given in
// any order.
func (e *Emitter) Emit(nodes []infra.Node) (*Result, error) {
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &run{
		Emitter:  e,
		logger:   logger,
		compiled: make(map[string]infra.Node),
		visiting: make(map[string]int),
		names:    make(map[string]string),
	}
	for _, n := range nodes {
		if err := r.compile(n); err != nil {
			return nil, err
		}
	}
	return &Result{
		Main:      r.main.String(),
		Variables: r.variables.String(),
		Outputs:   r.outputs.String(),
	}, nil
}

type run struct {
	*Emitter

	logger   *zap.Logger
	compiled map[string]infra.Node
	visiting map[string]int // uid -> index in path
	path     []string
	names    map[string]string // generated name -> uid

	main, variables, outputs strings.Builder
}

func (r *run) compile(n infra.Node) error {
	uid := n.UID()
	if prev, ok := r.compiled[uid]; ok {
		if prev != n {
			return errors.Errorf("duplicate node %q", uid)
		}
		return nil
	}
	if i, ok := r.visiting[uid]; ok {
		cycle := make([]string, len(r.path)-i)
		copy(cycle, r.path[i:])
		return &CycleError{UIDs: cycle}
	}

	r.visiting[uid] = len(r.path)
	r.path = append(r.path, uid)
	for _, d := range n.DependsOn() {
		if err := r.compile(d); err != nil {
			return err
		}
	}
	r.path = r.path[:len(r.path)-1]
	delete(r.visiting, uid)

	name := infra.Name(uid)
	if other, ok := r.names[name]; ok {
		return errors.Errorf("nodes %q and %q both use the name %q", other, uid, name)
	}
	r.names[name] = uid

	if err := r.render(n); err != nil {
		return errors.Wrapf(err, "render %s %q", n.Kind(), uid)
	}
	r.compiled[uid] = n
	r.logger.Debug("Emitted node", zap.String("uid", uid), zap.String("kind", string(n.Kind())))
	return nil
}

func (r *run) render(n infra.Node) error {
	ref, ok := r.Templates.Template(string(n.Kind()))
	if !ok {
		return &NoTemplateError{Kind: n.Kind()}
	}
	vars, err := n.Vars()
	if err != nil {
		return errors.Wrap(err, "get template values")
	}
	streams := []struct {
		uri string
		out *strings.Builder
	}{
		{ref.Main, &r.main},
		{ref.Variables, &r.variables},
		{ref.Outputs, &r.outputs},
	}
	for _, s := range streams {
		if s.uri == "" {
			continue
		}
		text, err := r.Resolver.Resolve(s.uri)
		if err != nil {
			return err
		}
		frag, err := template.Render(s.uri, text, vars)
		if err != nil {
			return err
		}
		appendFragment(s.out, frag)
	}
	return nil
}

// appendFragment appends a fragment, separating fragments by a blank line.
func appendFragment(b *strings.Builder, frag string) {
	frag = strings.Trim(frag, "\n")
	if strings.TrimSpace(frag) == "" {
		return
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(frag)
	b.WriteString("\n")
}
