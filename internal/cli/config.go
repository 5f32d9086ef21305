package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/piwi3910/PagePack/internal/model"
	"github.com/piwi3910/PagePack/internal/project"
)

func newConfigCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.PersistentFlags().StringVar(&path, "config", "", "config file (default "+project.DefaultConfigPath()+")")

	resolved := func() string {
		if path == "" {
			return project.DefaultConfigPath()
		}
		return path
	}

	cmd.AddCommand(newConfigInitCmd(resolved))
	cmd.AddCommand(newConfigShowCmd(resolved))
	return cmd
}

func newConfigInitCmd(path func() string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := path()
			if _, err := os.Stat(p); err == nil && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", p)
			}
			if err := project.SaveConfig(p, model.DefaultConfig()); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			loggerFromContext(cmd.Context()).Debug("wrote config", "path", p)
			printSuccess(out(cmd), "Wrote default config")
			printFile(out(cmd), p)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func newConfigShowCmd(path func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := path()
			cfg, err := project.LoadConfig(p)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				printWarning(out(cmd), "config is invalid: %v", err)
			}
			printDetail(out(cmd), "# %s", p)
			return toml.NewEncoder(out(cmd)).Encode(cfg)
		},
	}
}
