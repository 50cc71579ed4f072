// Package template fetches and renders the raw templates nodes are emitted
// with.
//
// Templates are referenced by URI. The scheme selects the store:
//
//   builtin://aws/network.tf      templates compiled into the binary
//   file://templates/network.tf   file on disk, relative to the store dir
//   templates/network.tf          same as file://
//   s3://bucket/aws/network.tf    object in an S3 bucket
//   s3:///aws/network.tf          object in the default bucket
//
// Template text is HCL template syntax. The node being rendered is available
// as node, for example ${node.name}. Literal interpolation sequences in the
// generated configuration are escaped as $${...}.
package template

import (
	"context"
	"fmt"
	"strings"
)

// A Store returns raw template text for a reference URI.
//
// Get must be side-effect free. A reference that does not exist results in
// an *UnknownReferenceError.
type Store interface {
	Get(ctx context.Context, uri string) (string, error)
}

// The StoreFunc type is an adapter to allow the use of an ordinary function
// as a Store.
type StoreFunc func(ctx context.Context, uri string) (string, error)

// Get calls fn.
func (fn StoreFunc) Get(ctx context.Context, uri string) (string, error) { return fn(ctx, uri) }

// UnknownReferenceError is returned when a template reference cannot be
// resolved.
type UnknownReferenceError struct {
	URI string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("unknown template reference %q", e.URI)
}

// SplitURI splits a reference into its scheme and the remainder. References
// without a scheme are files.
func SplitURI(uri string) (scheme, rest string) {
	if i := strings.Index(uri, "://"); i >= 0 {
		return uri[:i], uri[i+3:]
	}
	return "file", uri
}

// Mux dispatches to a store based on the reference scheme.
type Mux map[string]Store

// Get returns the template from the store registered for the scheme of uri.
func (m Mux) Get(ctx context.Context, uri string) (string, error) {
	scheme, _ := SplitURI(uri)
	s, ok := m[scheme]
	if !ok {
		return "", &UnknownReferenceError{URI: uri}
	}
	return s.Get(ctx, uri)
}
