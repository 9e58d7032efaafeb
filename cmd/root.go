package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartmcq/internal/api"
	"github.com/abhisek/smartmcq/internal/auth"
	"github.com/abhisek/smartmcq/internal/config"
	"github.com/abhisek/smartmcq/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "smartmcq",
	Short: "Terminal console for Smart MCQ test banks",
	Long:  "Smart MCQ console: browse question banks, assemble tests and review their analytics from the terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SMARTMCQ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/smartmcq/config.yaml)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(testsCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(devserverCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then SMARTMCQ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// loadConfig reads --config, or the default config path.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
	}
	return config.Load(path)
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// backend bundles what the API-facing commands need.
type backend struct {
	cfg    config.Config
	store  *store.Store
	client *api.Client
	auth   *auth.Manager
}

func (b *backend) Close() error {
	return b.store.Close()
}

// openBackend loads config, opens the store and builds an API client that
// records its requests as events.
func openBackend(cmd *cobra.Command) (*backend, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}
	client, err := api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithEventRepo(st.EventRepo()),
	)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("api client: %w", err)
	}
	return &backend{
		cfg:    cfg,
		store:  st,
		client: client,
		auth:   auth.NewManager(client, st.SessionRepo()),
	}, nil
}

// signedIn restores the stored session onto the client.
func (b *backend) signedIn(ctx context.Context) (*auth.Session, error) {
	sess, err := b.auth.Current(ctx)
	switch {
	case errors.Is(err, auth.ErrNoSession):
		return nil, errors.New("not signed in; run `smartmcq login` first")
	case errors.Is(err, auth.ErrExpired):
		return nil, errors.New("session expired; run `smartmcq login` again")
	case err != nil:
		return nil, fmt.Errorf("read session: %w", err)
	}
	b.client.SetToken(sess.Token())
	return sess, nil
}
