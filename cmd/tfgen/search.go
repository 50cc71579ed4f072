package cmd

import (
	"fmt"
	"os"

	"github.com/cloudblocks/tfgen/catalog"
	"github.com/spf13/cobra"
)

var searchCommand = &cobra.Command{
	Use:   "search [keyword]",
	Short: "Search supported resources",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		q := catalog.Query{}
		if len(args) == 1 {
			q.Keyword = args[0]
		}
		var err error
		if q.Cloud, err = cmd.Flags().GetString("cloud"); err != nil {
			panic(err)
		}
		if q.Tags, err = cmd.Flags().GetStringArray("tag"); err != nil {
			panic(err)
		}
		list, err := cmd.Flags().GetBool("list")
		if err != nil {
			panic(err)
		}

		found, err := catalog.Builtin().Search(q)
		if err == catalog.ErrNoResults {
			fmt.Fprintln(os.Stderr, "No resources found matching your search")
			os.Exit(1)
		}
		if err != nil {
			fatal(err)
		}
		for i, r := range found {
			if list {
				fmt.Println(r.Key)
				continue
			}
			doc, err := r.YAML()
			if err != nil {
				fatal(err)
			}
			if i > 0 {
				fmt.Println("---")
			}
			fmt.Print(doc)
		}
	},
}

func init() {
	searchCommand.Flags().StringP("cloud", "c", "", "Only show resources available in the cloud")
	searchCommand.Flags().StringArrayP("tag", "t", nil, "Only show resources with the tag. Can be repeated")
	searchCommand.Flags().BoolP("list", "l", false, "Only list resource keys")
	Tfgen.AddCommand(searchCommand)
}
