package cmd

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/cloudblocks/tfgen/catalog"
	"github.com/cloudblocks/tfgen/generator"
	"github.com/cloudblocks/tfgen/server"
	"github.com/cloudblocks/tfgen/template"
	"github.com/cloudblocks/tfgen/validation"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var defaultAddress = "0.0.0.0:5088"

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start the tfgen API server",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var logger *zap.Logger
		if isatty.IsTerminal(os.Stdout.Fd()) {
			l, err := zap.NewDevelopment()
			if err != nil {
				panic(err)
			}
			logger = l
		} else {
			l, err := zap.NewProduction()
			if err != nil {
				panic(err)
			}
			logger = l
		}
		defer func() {
			_ = logger.Sync()
		}()

		settings := loadSettings(cmd)
		store, closeStore := newStore(cmd, settings, logger)
		defer closeStore()

		srv := &server.Server{
			Generator: &generator.Generator{
				Settings: settings,
				Store:    store,
				Cache:    &template.Cache{},
				Logger:   logger.Named("generator"),
			},
			Validator: validation.New(settings),
			Catalog:   catalog.Builtin(),
			Logger:    logger.Named("http_api"),
		}

		addr, err := cmd.Flags().GetString("address")
		if err != nil {
			panic(err)
		}
		if env := os.Getenv("TFGEN_ADDR"); env != "" && !cmd.Flags().Changed("address") {
			addr = env
		}

		httpServer := &http.Server{Addr: addr, Handler: srv}
		ctx := signalContext(context.Background())
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = httpServer.Shutdown(shutdownCtx)
		}()

		logger.Info("Starting server", zap.String("address", addr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("Server error", zap.Error(err))
			closeStore()
			os.Exit(1)
		}
	},
}

func init() {
	serveCommand.Flags().String("address", defaultAddress, "Server address to listen on. Env var: TFGEN_ADDR")
	Tfgen.AddCommand(serveCommand)
}
