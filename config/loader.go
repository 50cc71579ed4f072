package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl2/gohcl"
	"github.com/hashicorp/hcl2/hcl"
	"github.com/hashicorp/hcl2/hclparse"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh/terminal"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a mapping file.
type Format int

// Supported mapping formats.
const (
	JSON Format = iota
	YAML
)

var suffixes = map[string]Format{
	".json": JSON,
	".yml":  YAML,
	".yaml": YAML,
}

// FormatFromFilename returns the mapping format for a file based on its
// suffix.
func FormatFromFilename(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	f, ok := suffixes[ext]
	if !ok {
		return 0, errors.Errorf("file %s does not have a valid suffix, possible values: .json .yml .yaml", filename)
	}
	return f, nil
}

// LoadMapping reads a mapping file from disk.
func LoadMapping(filename string) (Cloud, error) {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return Cloud{}, err
	}
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return Cloud{}, errors.Wrap(err, "read mapping")
	}
	c, err := ParseMapping(data, format)
	if err != nil {
		return Cloud{}, errors.Wrapf(err, "parse %s", filename)
	}
	return c, nil
}

// ParseMapping decodes a mapping from data. Unknown fields are rejected.
func ParseMapping(data []byte, format Format) (Cloud, error) {
	var c Cloud
	switch format {
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return Cloud{}, errors.Wrap(err, "decode json")
		}
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil {
			return Cloud{}, errors.Wrap(err, "decode yaml")
		}
	default:
		return Cloud{}, errors.Errorf("unknown format %d", format)
	}
	return c, nil
}

// A Loader loads settings files.
//
// The zero value is ready to load files. Files that were loaded are retained
// so diagnostics can be printed with source snippets.
type Loader struct {
	parser *hclparse.Parser
}

func (l *Loader) init() {
	if l.parser == nil {
		l.parser = hclparse.NewParser()
	}
}

// WriteDiagnostics writes diagnostics as a human readable string to w. It
// should only be used for diagnostics that originate from files loaded by
// Loader.
//
// If a TTY is attached, the output will be colorized and wrap at the terminal
// width. Otherwise, wrap will occur at 78 characters and output won't contain
// ANSI escape characters.
func (l *Loader) WriteDiagnostics(w io.Writer, diags hcl.Diagnostics) {
	l.init()
	cols, _, err := terminal.GetSize(0)
	if err != nil {
		cols = 78
	}
	color := terminal.IsTerminal(0)
	wr := hcl.NewDiagnosticTextWriter(w, l.parser.Files(), uint(cols), color)
	if err := wr.WriteDiagnostics(diags); err != nil {
		fmt.Fprintln(w, err)
	}
}

// LoadSettings loads a settings file from disk.
func (l *Loader) LoadSettings(filename string) (*Settings, hcl.Diagnostics) {
	l.init()
	f, diags := l.parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, diags
	}
	return decodeSettings(f)
}

// ParseSettings parses settings from src. The filename is only used in
// diagnostics.
func (l *Loader) ParseSettings(src []byte, filename string) (*Settings, hcl.Diagnostics) {
	l.init()
	f, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	return decodeSettings(f)
}

func decodeSettings(f *hcl.File) (*Settings, hcl.Diagnostics) {
	s := &Settings{}
	if diags := gohcl.DecodeBody(f.Body, nil, s); diags.HasErrors() {
		return nil, diags
	}
	if diags := s.check(f.Body.MissingItemRange()); diags.HasErrors() {
		return nil, diags
	}
	return s, nil
}
