package cmd

import (
	"fmt"
	"os"

	"github.com/cloudblocks/tfgen/validation"
	"github.com/spf13/cobra"
)

var validateCommand = &cobra.Command{
	Use:   "validate",
	Short: "Validate a mapping",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		record, err := readRecord(cmd)
		if err != nil {
			fatal(err)
		}
		settings := loadSettings(cmd)

		if err := validation.New(settings).Validate(record); err != nil {
			for _, p := range validation.Problems(err) {
				fmt.Fprintln(os.Stderr, p)
			}
			os.Exit(1)
		}
		fmt.Println("Configuration is valid")
	},
}

func init() {
	addInputFlags(validateCommand)
	Tfgen.AddCommand(validateCommand)
}
