// Package generator turns a mapping record into Terraform configuration.
//
// For every region in the record, the resources are lowered to concrete
// infrastructure nodes, the templates the nodes need are loaded and the nodes
// are emitted in dependency order. Each region gets its own provider
// preamble.
package generator

import (
	"context"
	"strings"

	"github.com/cloudblocks/tfgen/config"
	"github.com/cloudblocks/tfgen/emit"
	"github.com/cloudblocks/tfgen/graph"
	"github.com/cloudblocks/tfgen/infra"
	"github.com/cloudblocks/tfgen/lower"
	"github.com/cloudblocks/tfgen/template"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

// UnsupportedCloudError is returned when no settings exist for the cloud in a
// mapping record.
type UnsupportedCloudError struct {
	Cloud string
}

func (e *UnsupportedCloudError) Error() string {
	return "unsupported cloud " + e.Cloud
}

// InvalidRecordError is returned when a mapping record cannot be turned into
// a resource graph.
type InvalidRecordError struct {
	Err error
}

func (e *InvalidRecordError) Error() string {
	return "invalid mapping: " + e.Err.Error()
}

// A Generator generates configuration for mapping records.
type Generator struct {
	Settings *config.Settings
	Store    template.Store

	// Cache holds fetched templates. If set, the cache is shared between
	// calls; otherwise every call fetches its templates.
	Cache *template.Cache

	// IDs and Names are passed on to the lowerer.
	IDs   lower.IDGenerator
	Names lower.IDGenerator

	// Logger logs generation. If not set, logs are discarded.
	Logger *zap.Logger
}

// RegionNodes are the lowered nodes of a single region.
type RegionNodes struct {
	Region string
	Nodes  []infra.Node
}

func (g *Generator) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

func (g *Generator) cloud(name string) (*config.CloudSettings, error) {
	settings := g.Settings
	if settings == nil {
		settings = config.DefaultSettings()
	}
	cs, ok := settings.Cloud(name)
	if !ok {
		return nil, &UnsupportedCloudError{Cloud: name}
	}
	return cs, nil
}

// Lower lowers the resources of every region in the record. Regions are
// sorted by name.
func (g *Generator) Lower(record config.Cloud) ([]RegionNodes, error) {
	return g.lower(g.logger(), record)
}

func (g *Generator) lower(logger *zap.Logger, record config.Cloud) ([]RegionNodes, error) {
	if _, err := g.cloud(record.Cloud); err != nil {
		return nil, err
	}
	cloud, err := graph.New(record)
	if err != nil {
		return nil, &InvalidRecordError{Err: err}
	}
	l := &lower.Lowerer{
		IDs:    g.IDs,
		Names:  g.Names,
		Logger: logger,
	}
	var out []RegionNodes
	for _, region := range cloud.Regions() {
		nodes, err := l.Lower(region)
		if err != nil {
			return nil, errors.Wrapf(err, "lower region %s", region.Name)
		}
		out = append(out, RegionNodes{Region: region.Name, Nodes: nodes})
	}
	return out, nil
}

// Generate generates configuration for every region in the record.
func (g *Generator) Generate(ctx context.Context, record config.Cloud) (*Output, error) {
	logger := g.logger().With(
		zap.String("request_id", ksuid.New().String()),
		zap.String("cloud", record.Cloud),
	)
	logger.Info("Generate")

	cs, err := g.cloud(record.Cloud)
	if err != nil {
		return nil, err
	}
	regions, err := g.lower(logger, record)
	if err != nil {
		return nil, err
	}

	cache := g.Cache
	if cache == nil {
		cache = &template.Cache{}
	}

	out := &Output{Cloud: record.Cloud}
	for _, rn := range regions {
		rlogger := logger.With(zap.String("region", rn.Region))

		uris, err := emit.URIs(cs, rn.Nodes)
		if err != nil {
			return nil, errors.Wrapf(err, "region %s", rn.Region)
		}
		if cs.Provider != "" {
			uris = append(uris, cs.Provider)
		}
		rlogger.Debug("Loading templates", zap.Strings("uris", uris))
		if err := cache.Load(ctx, g.Store, uris); err != nil {
			return nil, errors.Wrapf(err, "load templates for region %s", rn.Region)
		}
		rlogger.Debug("Templates loaded", zap.Int("cached", cache.Len()))

		em := &emit.Emitter{
			Templates: cs,
			Resolver:  cache,
			Logger:    rlogger,
		}
		res, err := em.Emit(rn.Nodes)
		if err != nil {
			return nil, errors.Wrapf(err, "emit region %s", rn.Region)
		}

		preamble, err := g.preamble(cs, cache, rn.Region)
		if err != nil {
			return nil, errors.Wrapf(err, "region %s", rn.Region)
		}

		out.Regions = append(out.Regions, RegionOutput{
			Region:   rn.Region,
			Preamble: template.Format(preamble),
			Result: emit.Result{
				Main:      template.Format(res.Main),
				Variables: template.Format(res.Variables),
				Outputs:   template.Format(res.Outputs),
			},
		})
		rlogger.Info("Region generated", zap.Int("nodes", len(rn.Nodes)))
	}
	return out, nil
}

func (g *Generator) preamble(cs *config.CloudSettings, cache *template.Cache, region string) (string, error) {
	if cs.Provider == "" {
		return template.Preamble(cs.Name, region), nil
	}
	text, err := cache.Resolve(cs.Provider)
	if err != nil {
		return "", err
	}
	out, err := template.RenderPreamble(cs.Provider, text, cs.Name, region)
	if err != nil {
		return "", errors.Wrap(err, "render provider")
	}
	return strings.TrimSpace(out) + "\n", nil
}
