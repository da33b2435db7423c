package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodedesign/pkg/config"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := c.loadConfig()
			if err != nil {
				return err
			}
			if raw {
				return toml.NewEncoder(os.Stdout).Encode(cfg)
			}

			writeLine(StyleTitle.Render("Settings"))
			printKeyValue("file", path)
			printKeyValue("spacing", strconv.FormatFloat(cfg.Layout.SpacingFactor, 'g', -1, 64))
			printKeyValue("tree", strconv.FormatFloat(cfg.Layout.TreeFactor, 'g', -1, 64))
			printKeyValue("history", strconv.Itoa(cfg.History.Capacity))
			mode := "on selection"
			if cfg.Panel.Permanent {
				mode = "permanent"
			}
			printKeyValue("panel", fmt.Sprintf("%g, %g (%s)", cfg.Panel.X, cfg.Panel.Y, mode))
			printKeyValue("listen", cfg.Server.Addr)
			if cfg.Server.RedisAddr != "" {
				printKeyValue("redis", cfg.Server.RedisAddr)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "toml", false, "print as TOML")
	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configPath()
			if err != nil {
				return fmt.Errorf("locate config: %w", err)
			}
			if _, err := os.Stat(path); err == nil && !force {
				printWarning("Config already exists (use --force to overwrite)")
				printFile(path)
				return nil
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			printSuccess("Config written")
			printFile(path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configPath()
			if err != nil {
				return fmt.Errorf("locate config: %w", err)
			}
			writeLine(path)
			return nil
		},
	}
}
