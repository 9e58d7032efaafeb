package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartmcq/internal/devserver"
)

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Serve an in-memory backend for local development",
	Long: `Serve the backend API from an in-memory dataset.

Without --fixtures the built-in sample course is loaded. Changes are lost
when the server stops.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.DevServer.Addr
		}
		fixtures, _ := cmd.Flags().GetString("fixtures")
		if fixtures == "" {
			fixtures = cfg.DevServer.Fixtures
		}
		quiet, _ := cmd.Flags().GetBool("quiet")

		f, err := devserver.LoadFixtures(fixtures)
		if err != nil {
			return err
		}
		data, err := f.Dataset()
		if err != nil {
			return fmt.Errorf("build dataset: %w", err)
		}

		srv := devserver.New(data, devserver.Options{
			Secret:      cfg.DevServer.Secret,
			CORSOrigins: cfg.DevServer.CORSOrigins,
			Quiet:       quiet,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Serving Smart MCQ API %s on %s\n", devserver.Version, addr)
		err = srv.ListenAndServe(ctx, addr)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	},
}

func init() {
	devserverCmd.Flags().String("addr", "", "Listen address (default devserver.addr from config)")
	devserverCmd.Flags().String("fixtures", "", "YAML fixture file (default: built-in sample data)")
	devserverCmd.Flags().BoolP("quiet", "q", false, "Disable request logging")
}
