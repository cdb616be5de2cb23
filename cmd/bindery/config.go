package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/bindery/internal/config"
)

// loadConfig loads the file or directory named by --config. Without the
// flag, a config in the working directory is used when present and
// defaults otherwise.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if found, ok := config.Find(wd); ok {
			return config.LoadFile(found)
		}
		return config.New(), nil
	}

	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return config.Load(path)
	}
	return config.LoadFile(path)
}
