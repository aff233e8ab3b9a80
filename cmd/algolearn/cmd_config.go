package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const redacted = "<redacted>"

func (a *App) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(a.newConfigShowCommand())
	return cmd
}

func (a *App) newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults and ALGOLEARN_* environment
overrides are applied, followed by the curriculum source in use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *a.cfg
			if cfg.Database.DSN != "" {
				cfg.Database.DSN = redacted
			}
			if cfg.Cache.RedisURL != "" {
				cfg.Cache.RedisURL = redacted
			}

			data, err := yaml.Marshal(&cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			fmt.Fprintf(a.stdout, "# %s\n%s", a.configPath, data)
			fmt.Fprintf(a.stdout, "\n# curriculum: %s\n", a.describeSource())
			for _, s := range a.loadInfo.Skipped {
				fmt.Fprintf(a.stdout, "#   skipped %s: %s\n", s.Path, s.Reason)
			}
			return nil
		},
	}
}
