package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/superlists/internal/config"
	"github.com/mmynk/superlists/internal/mail"
	"github.com/mmynk/superlists/internal/storage"
	"github.com/mmynk/superlists/internal/storage/postgres"
	"github.com/mmynk/superlists/internal/storage/sqlite"
	"github.com/mmynk/superlists/pkg/logging"
)

var (
	// configFile is set by the --config flag.
	configFile string

	// cfg is loaded by PersistentPreRunE before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "superlists",
	Short: "Superlists is a shared to-do list server",
	Long: `Superlists serves shared to-do lists over HTML pages and a Connect
RPC API. Users log in with an emailed link and can share lists by email.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logging.Setup(loaded.Log.Level, loaded.Log.Format)
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./superlists.yaml or /etc/superlists/superlists.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(shareCmd)
}

// openStore opens the configured storage backend. Both backends migrate
// their schema on open.
func openStore(ctx context.Context, c *config.Config) (storage.Store, error) {
	switch c.Storage.Driver {
	case config.DriverSQLite:
		return sqlite.New(c.Storage.SQLitePath)
	case config.DriverPostgres:
		return postgres.New(ctx, c.Storage.PostgresURL)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStorageDriver, c.Storage.Driver)
	}
}

// newMailer returns the configured mail transport.
func newMailer(c *config.Config) mail.Mailer {
	if c.Mail.Driver == config.MailerSendGrid {
		return mail.NewSendGridMailer(c.Mail.SendGridAPIKey, c.Mail.From)
	}
	return mail.NewLogMailer(nil)
}
