package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cloud-ru/vehicle-equity-go/internal/config"
	"github.com/cloud-ru/vehicle-equity-go/internal/logging"
	"github.com/cloud-ru/vehicle-equity-go/internal/residuals"
	"github.com/cloud-ru/vehicle-equity-go/internal/tools"
	"github.com/cloud-ru/vehicle-equity-go/internal/tracing"
)

// app состояние, общее для всех команд
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "equity",
		Short: "Vehicle equity projection engine",
		Long: `equity forecasts what a financed car is worth, what it costs to settle the
finance early, and when selling or swapping it leaves money in your pocket.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "text", "log format (text, json)")
	root.PersistentFlags().String("storage", "", "garage storage backend (memory, sqlite, redis)")
	root.PersistentFlags().String("db", "", "SQLite database path")

	root.AddCommand(a.serveCmd())
	root.AddCommand(a.projectCmd())
	root.AddCommand(a.settleCmd())
	root.AddCommand(a.residualCmd())
	root.AddCommand(a.quoteCmd())
	root.AddCommand(a.compareCmd())
	root.AddCommand(a.vehiclesCmd())
	root.AddCommand(versionCmd())

	return root
}

// flagBindings ключи конфигурации и флаги, которые их переопределяют
var flagBindings = map[string]string{
	"log_level":       "log-level",
	"log_format":      "log-format",
	"storage_backend": "storage",
	"sqlite_path":     "db",
	"port":            "port",
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper(a.cfgFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd); err != nil {
		return err
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	tracing.ServiceVersion = version
	a.cfg = cfg
	a.logger = logger
	return nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for key, name := range flagBindings {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// registry реестр инструментов для команд CLI
func (a *app) registry() (*tools.Registry, error) {
	table, err := residuals.LoadOrDefault(a.cfg.ResidualTablePath)
	if err != nil {
		return nil, err
	}
	return tools.NewRegistry(a.cfg, tracing.Tracer, table), nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "equity version %s\n", version)
		},
	}
}
