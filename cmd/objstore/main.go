package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/quartzlabs/objectstore/pkg/objectstore"
	"github.com/quartzlabs/objectstore/pkg/objectstore/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "objstore",
	Short:   "Manage containers and objects in the configured store",
	Long: `objstore talks directly to the storage and metadata backends
configured through the environment (STORAGE_URL, DATABASE_URL).`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildStore assembles a store from the environment. Event logging is
// disabled for CLI use.
func buildStore() (objectstore.Store, error) {
	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		return nil, err
	}
	cfg.EnableEventLogging = false
	return cfg.BuildStore()
}
