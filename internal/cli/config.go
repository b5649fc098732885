package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/timestack/pkg/config"
)

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and check configuration files",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configValidateCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

// configInitCommand writes a starter configuration that spells out the
// defaults.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write a starter configuration file",
		Long: `Write a starter configuration file. The syntax follows the extension
(.toml, .yaml or .yml). Without a file the configuration is written to
config.toml in the user config directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configTarget(args)
			if err != nil {
				return err
			}
			return writeSampleConfig(path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func configTarget(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	dir, err := configDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, "config.toml"), nil
}

func writeSampleConfig(path string, force bool) error {
	format, err := config.FormatFor(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	var buf bytes.Buffer
	if err := config.Encode(&buf, config.Sample(), format); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return err
	}
	printSuccess("Wrote configuration")
	printFile(path)
	return nil
}

func (c *CLI) configValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			opts, err := cfg.AxisOptions()
			if err != nil {
				return err
			}
			printSuccess("%s is valid", args[0])
			printKeyValue("Generators", fmt.Sprint(len(config.GeneratorsOrDefault(opts))))
			printKeyValue("Fingerprint", config.Fingerprint(cfg))
			return nil
		},
	}
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the default configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configTarget(nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
