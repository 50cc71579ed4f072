package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws/external"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cloudblocks/tfgen/config"
	"github.com/cloudblocks/tfgen/storage"
	"github.com/cloudblocks/tfgen/storage/kvbackend"
	"github.com/cloudblocks/tfgen/template"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// defaultRegion is used for S3 requests when no region is configured.
const defaultRegion = "us-west-1"

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func newLogger(cmd *cobra.Command) *zap.Logger {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		panic(err)
	}
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	if verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := logCfg.Build()
	if err != nil {
		fatal(errors.Wrap(err, "build logger"))
	}
	return logger
}

// loadSettings loads the settings file, or returns the built-in settings.
// The templates bucket flag overrides the bucket in the settings.
func loadSettings(cmd *cobra.Command) *config.Settings {
	file, err := cmd.Flags().GetString("settings")
	if err != nil {
		panic(err)
	}
	settings := config.DefaultSettings()
	if file != "" {
		l := &config.Loader{}
		s, diags := l.LoadSettings(file)
		if diags.HasErrors() {
			l.WriteDiagnostics(os.Stderr, diags)
			os.Exit(1)
		}
		settings = s
	}

	bucket, err := cmd.Flags().GetString("templates-bucket")
	if err != nil {
		panic(err)
	}
	if bucket == "" {
		bucket = os.Getenv("TFGEN_TEMPLATES_BUCKET")
	}
	if bucket != "" {
		settings.TemplatesBucket = bucket
	}
	if settings.TemplatesBucket == "" {
		settings.TemplatesBucket = config.DefaultTemplatesBucket
	}
	return settings
}

// lazyS3 creates the S3 client on first use so that commands that only use
// built-in templates do not require AWS configuration.
func lazyS3(bucket string, logger *zap.Logger) template.Store {
	var (
		once  sync.Once
		store template.Store
		err   error
	)
	return template.StoreFunc(func(ctx context.Context, uri string) (string, error) {
		once.Do(func() {
			cfg, cerr := external.LoadDefaultAWSConfig()
			if cerr != nil {
				err = errors.Wrap(cerr, "load aws config")
				return
			}
			if cfg.Region == "" {
				cfg.Region = defaultRegion
			}
			store = &template.Retry{
				Store:  &template.S3{Client: s3.New(cfg), Bucket: bucket},
				Logger: logger,
			}
		})
		if err != nil {
			return "", err
		}
		return store.Get(ctx, uri)
	})
}

// newStore creates the template store. Remote templates are cached in a bolt
// database unless caching is disabled. The returned func closes the cache.
func newStore(cmd *cobra.Command, settings *config.Settings, logger *zap.Logger) (template.Store, func()) {
	remote := lazyS3(settings.TemplatesBucket, logger.Named("s3"))

	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		panic(err)
	}
	closeFn := func() {}
	if !noCache {
		db, err := openCache(cmd)
		if err != nil {
			fatal(err)
		}
		remote = &template.Persistent{
			Store:     remote,
			Templates: &storage.Templates{Backend: db},
			Logger:    logger.Named("cache"),
		}
		closeFn = func() {
			if err := db.Close(); err != nil {
				logger.Error("Could not close cache", zap.Error(err))
			}
		}
	}

	return template.Mux{
		"builtin": template.Builtin{},
		"file":    &template.Disk{},
		"s3":      remote,
	}, closeFn
}

func openCache(cmd *cobra.Command) (*kvbackend.Bolt, error) {
	file, err := cmd.Flags().GetString("cache")
	if err != nil {
		panic(err)
	}
	if file == "" {
		file, err = kvbackend.DefaultBoltFile()
		if err != nil {
			return nil, err
		}
	}
	return kvbackend.OpenBolt(file)
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Mapping file (.json, .yml or .yaml)")
	cmd.Flags().StringP("data", "d", "", "Mapping as a json string")
}

// readRecord reads the mapping given with --file or --data.
func readRecord(cmd *cobra.Command) (config.Cloud, error) {
	file, err := cmd.Flags().GetString("file")
	if err != nil {
		panic(err)
	}
	data, err := cmd.Flags().GetString("data")
	if err != nil {
		panic(err)
	}
	switch {
	case file != "" && data != "":
		return config.Cloud{}, errors.New("--file and --data cannot be used together")
	case file != "":
		return config.LoadMapping(file)
	case data != "":
		var record config.Cloud
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			return config.Cloud{}, errors.Wrap(err, "parse data")
		}
		return record, nil
	}
	return config.Cloud{}, errors.New("one of --file or --data is required")
}
