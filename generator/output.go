package generator

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudblocks/tfgen/emit"
	"github.com/pkg/errors"
)

// Output is the generated configuration of a mapping record.
type Output struct {
	Cloud   string
	Regions []RegionOutput
}

// RegionOutput is the generated configuration of a single region.
type RegionOutput struct {
	Region   string
	Preamble string
	emit.Result
}

// Files returns the generated files by name. Empty streams are omitted.
func (r RegionOutput) Files() map[string]string {
	files := map[string]string{
		"provider.tf": r.Preamble,
		"main.tf":     r.Main,
	}
	if r.Variables != "" {
		files["variables.tf"] = r.Variables
	}
	if r.Outputs != "" {
		files["outputs.tf"] = r.Outputs
	}
	return files
}

// String returns the configuration as a single document.
func (r RegionOutput) String() string {
	var parts []string
	for _, s := range []string{r.Preamble, r.Main, r.Variables, r.Outputs} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// Lines returns the configuration line by line.
func (r RegionOutput) Lines() []string {
	return strings.Split(strings.TrimSuffix(r.String(), "\n"), "\n")
}

// String returns the configuration of all regions.
func (o *Output) String() string {
	var b strings.Builder
	for i, r := range o.Regions {
		if len(o.Regions) > 1 {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("# region: " + r.Region + "\n\n")
		}
		b.WriteString(r.String())
	}
	return b.String()
}

// WriteDir writes the configuration files to dir. When the output contains
// more than one region, each region is written to a subdirectory named after
// the region.
func (o *Output) WriteDir(dir string) error {
	for _, r := range o.Regions {
		target := dir
		if len(o.Regions) > 1 {
			target = filepath.Join(dir, r.Region)
		}
		if err := os.MkdirAll(target, 0755); err != nil {
			return errors.Wrap(err, "create output directory")
		}
		for name, content := range r.Files() {
			file := filepath.Join(target, name)
			if err := ioutil.WriteFile(file, []byte(content), 0644); err != nil {
				return errors.Wrapf(err, "write %s", file)
			}
		}
	}
	return nil
}
