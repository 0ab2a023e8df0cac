package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/readlater/pocket-cli/internal/stats"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show reading stats for the cached list",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, repo, service, err := openService()
		if err != nil {
			return err
		}
		defer repo.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		total, err := service.Stats(ctx)
		if err != nil {
			return fmt.Errorf("collect stats: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, window := range []struct {
			label  string
			counts stats.Counts
		}{
			{"Today", total.Today},
			{"This week", total.Week},
			{"This month", total.Month},
		} {
			fmt.Fprintln(out, window.label)
			fmt.Fprint(out, stats.Render(window.counts))
			fmt.Fprintln(out)
		}
		return nil
	},
}
