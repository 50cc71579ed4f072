package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/cloudblocks/tfgen/generator"
	"github.com/cloudblocks/tfgen/template"
	"github.com/cloudblocks/tfgen/validation"
	"github.com/spf13/cobra"
)

var buildCommand = &cobra.Command{
	Use:   "build",
	Short: "Generate Terraform configuration",
	Long: `Generate Terraform configuration for a mapping.

Without --output, the configuration is printed to stdout. With --output,
provider.tf, main.tf, variables.tf and outputs.tf are written to the
directory. Mappings with more than one region are written to a
subdirectory per region.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		record, err := readRecord(cmd)
		if err != nil {
			fatal(err)
		}
		settings := loadSettings(cmd)

		if err := validation.New(settings).Validate(record); err != nil {
			fmt.Fprintln(os.Stderr, "Input was invalid, please run validate to make sure it's valid")
			os.Exit(1)
		}

		logger := newLogger(cmd)
		defer func() { _ = logger.Sync() }()

		store, closeStore := newStore(cmd, settings, logger)
		defer closeStore()

		g := &generator.Generator{
			Settings: settings,
			Store:    store,
			Cache:    &template.Cache{},
			Logger:   logger,
		}

		ctx := signalContext(context.Background())
		out, err := g.Generate(ctx, record)
		if err != nil {
			closeStore()
			fatal(err)
		}

		dir, err := cmd.Flags().GetString("output")
		if err != nil {
			panic(err)
		}
		if dir == "" {
			fmt.Print(out.String())
			return
		}
		if err := out.WriteDir(dir); err != nil {
			closeStore()
			fatal(err)
		}
	},
}

func init() {
	addInputFlags(buildCommand)
	buildCommand.Flags().StringP("output", "o", "", "Output directory")
	Tfgen.AddCommand(buildCommand)
}
