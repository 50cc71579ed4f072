package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cloudblocks/tfgen/storage"
	"github.com/cloudblocks/tfgen/template"
	"github.com/spf13/cobra"
)

var cacheCommand = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached remote templates",
}

var cacheListCommand = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List cached templates",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		db, err := openCache(cmd)
		if err != nil {
			fatal(err)
		}
		defer func() { _ = db.Close() }()

		templates := &storage.Templates{Backend: db}
		list, err := templates.List(context.Background())
		if err != nil {
			_ = db.Close()
			fatal(err)
		}
		builtin, err := cmd.Flags().GetBool("builtin")
		if err != nil {
			_ = db.Close()
			fatal(err)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		if builtin {
			for _, uri := range (template.Builtin{}).List() {
				fmt.Fprintf(w, "%s\tbuiltin\n", uri)
			}
		}
		for _, t := range list {
			fmt.Fprintf(w, "%s\t%s\n", t.URI, t.Fetched.Format("2006-01-02 15:04:05"))
		}
		_ = w.Flush()
	},
}

var cacheClearCommand = &cobra.Command{
	Use:   "clear [uri...]",
	Short: "Remove cached templates. Removes all templates if no uri is given",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := openCache(cmd)
		if err != nil {
			fatal(err)
		}
		defer func() { _ = db.Close() }()

		ctx := context.Background()
		templates := &storage.Templates{Backend: db}
		uris := args
		if len(uris) == 0 {
			list, err := templates.List(ctx)
			if err != nil {
				_ = db.Close()
				fatal(err)
			}
			for _, t := range list {
				uris = append(uris, t.URI)
			}
		}
		for _, uri := range uris {
			if err := templates.Delete(ctx, uri); err != nil {
				_ = db.Close()
				fatal(err)
			}
		}
		fmt.Printf("Removed %d templates\n", len(uris))
	},
}

func init() {
	cacheListCommand.Flags().BoolP("builtin", "b", false, "Also list templates built into the binary")
	cacheCommand.AddCommand(cacheListCommand, cacheClearCommand)
	Tfgen.AddCommand(cacheCommand)
}
