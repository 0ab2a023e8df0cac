package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var addTitle string

func init() {
	addCmd.Flags().StringVar(&addTitle, "title", "", "Title to save with the URL")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Save a URL to Pocket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, repo, service, err := openService()
		if err != nil {
			return err
		}
		defer repo.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := service.SaveURL(ctx, args[0], addTitle); err != nil {
			return fmt.Errorf("save url: %w", err)
		}
		fmt.Println("Saved. Run sync to pull it into the local cache.")
		return nil
	},
}
