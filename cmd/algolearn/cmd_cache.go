package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bjpl/algolearn/internal/cache"
)

func (a *App) newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear the search result cache",
	}
	cmd.AddCommand(a.newCacheStatsCommand())
	cmd.AddCommand(a.newCacheClearCommand())
	return cmd
}

func (a *App) newCacheStatsCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache backend, entry count and hit rate",
		Long: `stats reports the configured backend and how many cached result sets it
holds. Hits and misses are counted per process.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, "table", "json"); err != nil {
				return err
			}
			s := a.searchCache().Stats(cmd.Context())
			if format == "json" {
				return writeJSON(a.stdout, s)
			}

			entries := fmt.Sprint(s.Entries)
			if s.Entries < 0 {
				entries = "unavailable"
			}
			t := newTable(-1, "BACKEND", "ENTRIES", "HITS", "MISSES", "HIT RATE")
			t.add(s.Backend, entries, fmt.Sprint(s.Hits), fmt.Sprint(s.Misses), fmt.Sprintf("%.0f%%", s.HitRate*100))
			t.render(a.stdout, a.termWidth())
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	return cmd
}

func (a *App) newCacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached search result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.searchCache()
			before := c.Stats(cmd.Context()).Entries
			if err := c.Clear(cmd.Context()); err != nil {
				return err
			}
			a.log.Info("cache_cleared", "backend", a.cfg.Cache.Backend, "entries", before)
			if a.cfg.Cache.Backend == cache.BackendNone {
				fmt.Fprintln(a.stdout, "Cache is disabled (cache.backend: none); nothing to clear.")
				return nil
			}
			if before < 0 {
				fmt.Fprintln(a.stdout, "Cleared cache")
				return nil
			}
			fmt.Fprintf(a.stdout, "Cleared %d cached searches\n", before)
			return nil
		},
	}
}
