package cmd

import (
	"os"

	"github.com/cloudblocks/tfgen/emit"
	"github.com/cloudblocks/tfgen/generator"
	"github.com/spf13/cobra"
)

var graphCommand = &cobra.Command{
	Use:   "graph",
	Short: "Print the lowered infrastructure graph in DOT format",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		record, err := readRecord(cmd)
		if err != nil {
			fatal(err)
		}
		logger := newLogger(cmd)
		defer func() { _ = logger.Sync() }()

		g := &generator.Generator{
			Settings: loadSettings(cmd),
			Logger:   logger,
		}
		regions, err := g.Lower(record)
		if err != nil {
			fatal(err)
		}
		for _, r := range regions {
			dot, err := emit.Dot(r.Region, r.Nodes)
			if err != nil {
				fatal(err)
			}
			if _, err := os.Stdout.Write(append(dot, '\n')); err != nil {
				fatal(err)
			}
		}
	},
}

func init() {
	addInputFlags(graphCommand)
	Tfgen.AddCommand(graphCommand)
}
