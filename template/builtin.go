package template

import (
	"context"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed builtin
var builtinFS embed.FS

// Builtin serves the templates compiled into the binary.
type Builtin struct{}

// Get returns a builtin template.
func (Builtin) Get(ctx context.Context, uri string) (string, error) {
	scheme, name := SplitURI(uri)
	if scheme != "builtin" || name == "" {
		return "", &UnknownReferenceError{URI: uri}
	}
	data, err := builtinFS.ReadFile(path.Join("builtin", path.Clean("/" + name)))
	if err != nil {
		return "", &UnknownReferenceError{URI: uri}
	}
	return string(data), nil
}

// List returns the references of all builtin templates, sorted.
func (Builtin) List() []string {
	var out []string
	_ = fs.WalkDir(builtinFS, "builtin", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		out = append(out, "builtin://"+strings.TrimPrefix(p, "builtin/"))
		return nil
	})
	sort.Strings(out)
	return out
}
