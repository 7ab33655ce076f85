// frontdesk es el binario del backend multi-tenant: servidor HTTP,
// migraciones, seed del plan base y utilidades de cifrado.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/frontdesk/internal/config"
	"github.com/dropDatabas3/frontdesk/internal/observability/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "frontdesk",
	Short: "Multi-tenant booking backend",
	Long:  "FrontDesk: dashboard auth, rotating session tokens and encrypted custody of Square credentials.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, encCmd)
}

// loadConfig carga .env (si existe), la config YAML y arma el logger.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load(".env")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "frontdesk"})
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
