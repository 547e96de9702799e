package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/rippleid/internal/config"
	"github.com/dropDatabas3/rippleid/internal/observability/logger"
)

var version = "dev"

type rootFlags struct {
	configPath string
	envFiles   []string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	root := &cobra.Command{
		Use:           "rippleid",
		Short:         "Login con Ripple ID (OAuth 2.0)",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&f.configPath, "config", envOr("CONFIG_PATH", ""), "Archivo YAML de configuración (env CONFIG_PATH)")
	root.PersistentFlags().StringSliceVar(&f.envFiles, "env-file", []string{".env"}, "Archivos .env a cargar si existen")

	root.AddCommand(
		newServeCmd(f),
		newAuthorizeURLCmd(f),
		newProfileCmd(f),
	)
	return root
}

// load lee .env + YAML + env e inicializa el logger.
func (f *rootFlags) load() (*config.Config, error) {
	config.LoadDotEnv(f.envFiles...)

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: cfg.App.Name,
		Version:     version,
	})
	return cfg, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
