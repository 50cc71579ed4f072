// Package cmd contains the tfgen command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

// Tfgen is the root command.
var Tfgen = &cobra.Command{
	Use:   "tfgen",
	Short: "Generate Terraform configuration from cloud agnostic mappings",
}

func init() {
	flags := Tfgen.PersistentFlags()
	flags.String("settings", "", "Settings file describing clouds and templates. Built-in settings are used if not set")
	flags.String("templates-bucket", "", "Default S3 bucket for templates. Env var: TFGEN_TEMPLATES_BUCKET")
	flags.String("cache", "", "Template cache database (default ~/.tfgen/cache.db)")
	flags.Bool("no-cache", false, "Do not cache remote templates on disk")
	flags.BoolP("verbose", "v", false, "Verbose logging")
}
