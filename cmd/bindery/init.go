package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/bindery/internal/config"
)

func initCmd() *cobra.Command {
	var (
		format string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default configuration file",
		Long: `Write bindery.json, bindery.yaml or bindery.toml with default values.

Examples:
  bindery init
  bindery init --format yaml ./web`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(cmd, dir, format, force)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "File format: json, yaml or toml")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

func runInit(cmd *cobra.Command, dir, format string, force bool) error {
	switch format {
	case "json", "yaml", "toml":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	if existing, ok := config.Find(dir); ok && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", existing)
	}

	cfg := config.New()
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	cfg.Name = filepath.Base(abs)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(dir, config.ConfigBaseName+"."+format)
	if err := cfg.SaveTo(path); err != nil {
		return err
	}
	success(cmd.OutOrStdout(), "Wrote %s", path)
	return nil
}
