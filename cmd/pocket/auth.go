package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/readlater/pocket-cli/internal/auth"
	"github.com/readlater/pocket-cli/internal/config"
)

func init() {
	rootCmd.AddCommand(authCmd)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Log in to Pocket via the browser",
	Long: `auth starts the OAuth flow: it opens getpocket.com in your browser and
waits for the redirect on a local port. The access token is stored in the
data directory for the other commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFromEnv()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		flow := auth.NewFlow(cfg.APIBaseURL, cfg.ConsumerKey, nil)
		fmt.Println("Opening Pocket in your browser, approve the request there...")
		tok, err := flow.Login(ctx)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		if err := auth.SaveToken(cfg.TokenPath, tok); err != nil {
			return fmt.Errorf("save token: %w", err)
		}
		fmt.Printf("Logged in as %s\n", tok.Username)
		return nil
	},
}
