package template

import (
	"context"

	"github.com/cloudblocks/tfgen/storage"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Persistent reads templates through a persistent store. Templates that are
// not stored yet are fetched from Store and saved.
type Persistent struct {
	Store     Store
	Templates *storage.Templates

	// Logger logs cache misses. If not set, logs are discarded.
	Logger *zap.Logger
}

// Get returns the stored template or fetches it.
func (p *Persistent) Get(ctx context.Context, uri string) (string, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := p.Templates.Get(ctx, uri)
	if err == nil {
		return tmpl.Text, nil
	}
	if errors.Cause(err) != storage.ErrNotFound {
		return "", errors.Wrap(err, "get stored template")
	}

	logger.Debug("Template not stored", zap.String("uri", uri))
	text, err := p.Store.Get(ctx, uri)
	if err != nil {
		return "", err
	}
	if err := p.Templates.Put(ctx, uri, text); err != nil {
		return "", errors.Wrap(err, "store template")
	}
	return text, nil
}
