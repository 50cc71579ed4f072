// Package storage persists fetched template text so that templates are not
// downloaded again on every run.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// The KVBackend is used for persisting key-value data.
type KVBackend interface {
	// Put creates or updates a key.
	Put(ctx context.Context, key string, value []byte) error

	// Get returns the given key. Returns ErrNotFound if the given key does not
	// exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete deletes a key. Returns ErrNotFound if the given key does not exist.
	Delete(ctx context.Context, key string) error

	// Scan returns a key-value map of all keys matching the given prefix.
	Scan(ctx context.Context, prefix string) (map[string][]byte, error)
}

const templatePrefix = "templates"

// A Template is a stored template.
type Template struct {
	URI     string    `json:"uri"`
	Text    string    `json:"text"`
	Fetched time.Time `json:"fetched"`
}

// Templates stores template text keyed by the template reference it was
// fetched from.
type Templates struct {
	Backend KVBackend

	// Now returns the current time. If not set, time.Now is used.
	Now func() time.Time
}

// URIs can contain any character, keys are derived from a hash instead.
func templateKey(uri string) string {
	sum := sha256.Sum256([]byte(uri))
	return templatePrefix + "/" + hex.EncodeToString(sum[:])
}

// Put stores the text for a template reference.
func (t *Templates) Put(ctx context.Context, uri, text string) error {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	data, err := json.Marshal(Template{URI: uri, Text: text, Fetched: now().UTC()})
	if err != nil {
		return errors.Wrap(err, "marshal template")
	}
	if err := t.Backend.Put(ctx, templateKey(uri), data); err != nil {
		return errors.Wrap(err, "store")
	}
	return nil
}

// Get returns a stored template. Returns ErrNotFound if the template has not
// been stored.
func (t *Templates) Get(ctx context.Context, uri string) (*Template, error) {
	data, err := t.Backend.Get(ctx, templateKey(uri))
	if err != nil {
		return nil, err
	}
	var tmpl Template
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return nil, errors.Wrap(err, "unmarshal stored template")
	}
	return &tmpl, nil
}

// Delete removes a stored template.
func (t *Templates) Delete(ctx context.Context, uri string) error {
	if err := t.Backend.Delete(ctx, templateKey(uri)); err != nil {
		return errors.Wrap(err, "delete")
	}
	return nil
}

// List returns all stored templates, sorted by uri.
func (t *Templates) List(ctx context.Context) ([]Template, error) {
	values, err := t.Backend.Scan(ctx, templatePrefix)
	if err != nil {
		return nil, errors.Wrap(err, "scan")
	}
	out := make([]Template, 0, len(values))
	for _, v := range values {
		var tmpl Template
		if err := json.Unmarshal(v, &tmpl); err != nil {
			return nil, errors.Wrap(err, "unmarshal stored template")
		}
		out = append(out, tmpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out, nil
}
