package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the local cache from Pocket",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, repo, service, err := openService()
		if err != nil {
			return err
		}
		defer repo.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		start := time.Now()
		changed, err := service.Sync(ctx)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		fmt.Printf("Synced %d items in %s\n", changed, time.Since(start).Round(time.Millisecond))
		return nil
	},
}
