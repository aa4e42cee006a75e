package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sqlitedesk/sqlitedesk/api"
	"github.com/sqlitedesk/sqlitedesk/config"
	"github.com/sqlitedesk/sqlitedesk/daos"
	"github.com/sqlitedesk/sqlitedesk/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		log := logging.New(cfg.Logging.Level, cfg.Logging.Format)

		store := daos.NewStore(cfg.Storage.DataDir, log)
		if err := store.Init(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return api.NewServer(cfg, log, store).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
