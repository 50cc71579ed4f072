package template

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Disk reads templates from the local file system.
type Disk struct {
	Dir string // Relative references are resolved against Dir.
}

// Get reads a template file.
func (d *Disk) Get(ctx context.Context, uri string) (string, error) {
	scheme, name := SplitURI(uri)
	if scheme != "file" || name == "" {
		return "", &UnknownReferenceError{URI: uri}
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(d.Dir, filepath.FromSlash(name))
	}
	data, err := ioutil.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &UnknownReferenceError{URI: uri}
		}
		return "", errors.Wrapf(err, "read %s", name)
	}
	return string(data), nil
}
