// Package infra contains the concrete infrastructure nodes produced by
// lowering.
//
// Every node knows the nodes it depends on and exposes the values its
// templates are rendered with. Nodes must not be modified after they have
// been constructed; dependencies always point at nodes that existed when the
// dependent node was created.
package infra

import (
	"regexp"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Kind identifies the type of a node. It is used to look up templates.
type Kind string

// Node kinds.
const (
	KindNetwork              Kind = "network"
	KindComputeInstance      Kind = "compute_instance"
	KindContainerCompute     Kind = "container_compute"
	KindObjectStorage        Kind = "object_storage"
	KindPublicWebsiteStorage Kind = "public_website_storage"
	KindManagedDatabase      Kind = "managed_database"
)

// Kinds returns all node kinds.
func Kinds() []Kind {
	return []Kind{
		KindNetwork,
		KindComputeInstance,
		KindContainerCompute,
		KindObjectStorage,
		KindPublicWebsiteStorage,
		KindManagedDatabase,
	}
}

// A Node is a concrete infrastructure node. The set of implementations is
// closed to this package.
type Node interface {
	// UID is the uid of the resource the node was lowered from, or a
	// generated uid for implicit nodes.
	UID() string

	Kind() Kind

	// DependsOn returns the nodes that must be emitted before this node.
	DependsOn() []Node

	// Vars returns the values the node's templates are rendered with.
	Vars() (cty.Value, error)

	sealed()
}

// A Bucket is a node that provides a storage bucket.
type Bucket interface {
	Node
	Bucket() string
}

var invalidName = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// Name returns the identifier used for a node in generated configuration.
// Characters that are not allowed in identifiers are replaced by underscores
// and a leading digit or dash is prefixed with "r_".
func Name(uid string) string {
	name := invalidName.ReplaceAllString(uid, "_")
	if name == "" {
		return "r_"
	}
	if c := name[0]; (c >= '0' && c <= '9') || c == '-' {
		name = "r_" + name
	}
	return name
}

func names(nodes []Bucket) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = Name(n.UID())
	}
	return out
}

func bucketNames(nodes []Bucket) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Bucket()
	}
	return out
}

func bucketDeps(nodes []Bucket) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

// objectVal converts a struct with cty tags into an object value.
func objectVal(v interface{}) (cty.Value, error) {
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, err
	}
	return gocty.ToCtyValue(v, ty)
}
