package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartmcq/internal/app"
	"github.com/abhisek/smartmcq/internal/assist"
	"github.com/abhisek/smartmcq/internal/llm"
	"github.com/abhisek/smartmcq/internal/screens/nav"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	b, err := openBackend(cmd)
	if err != nil {
		return err
	}
	defer b.Close()

	eventRepo := b.store.EventRepo()
	env := &nav.Env{
		API:    b.client,
		Auth:   b.auth,
		Events: eventRepo,
		Config: b.cfg,
	}

	provider, _, err := llm.NewProviderFromEnv(ctx, eventRepo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI suggestions will be unavailable.")
	} else {
		env.Assist = assist.NewService(provider, assist.DefaultConfig())
	}

	return app.Run(ctx, app.Options{
		Env:      env,
		Tokens:   b.client,
		Sessions: b.auth,
		Versions: b.client,
	})
}
