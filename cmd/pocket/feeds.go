package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/readlater/pocket-cli/internal/config"
	"github.com/readlater/pocket-cli/internal/rss"
)

func init() {
	feedsCmd.AddCommand(feedsListCmd, feedsAddCmd, feedsRemoveCmd, feedsFetchCmd)
	rootCmd.AddCommand(feedsCmd)
}

var feedsCmd = &cobra.Command{
	Use:   "feeds",
	Short: "Manage RSS/Atom subscriptions",
	Long: `feeds keeps a plain-text subscription list next to the Pocket cache.
Fetched entries are printed with their links so anything interesting can be
saved with "pocket-cli add".`,
}

func feedManager() (*rss.Manager, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	return rss.NewManager(cfg.FeedsPath, nil), nil
}

var feedsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subscribed feed URLs",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := feedManager()
		if err != nil {
			return err
		}
		subs, err := mgr.LoadSubscriptions()
		if err != nil {
			return fmt.Errorf("load subscriptions: %w", err)
		}
		if len(subs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No subscriptions.")
			return nil
		}
		for _, sub := range subs {
			fmt.Fprintln(cmd.OutOrStdout(), sub)
		}
		return nil
	},
}

var feedsAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Subscribe to a feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := feedManager()
		if err != nil {
			return err
		}
		if err := mgr.AddSubscription(args[0]); err != nil {
			return fmt.Errorf("add subscription: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Subscribed.")
		return nil
	},
}

var feedsRemoveCmd = &cobra.Command{
	Use:   "remove <url>",
	Short: "Unsubscribe from a feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := feedManager()
		if err != nil {
			return err
		}
		if err := mgr.RemoveSubscription(args[0]); err != nil {
			return fmt.Errorf("remove subscription: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Unsubscribed.")
		return nil
	},
}

var feedsFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch all subscribed feeds and print their entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := feedManager()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		items, err := mgr.FetchAll(ctx)
		if err != nil {
			return fmt.Errorf("fetch feeds: %w", err)
		}
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No entries.")
			return nil
		}
		for _, item := range items {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n  %s\n", item.Source, item.Title, item.Link)
		}
		return nil
	},
}
