package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cloud-ru/vehicle-equity-go/internal/residuals"
	"github.com/cloud-ru/vehicle-equity-go/internal/server"
	"github.com/cloud-ru/vehicle-equity-go/internal/tools"
	"github.com/cloud-ru/vehicle-equity-go/internal/tracing"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the tools under /tools/{name}, the garage under /vehicles and
Prometheus metrics under /metrics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			tracer, shutdown, err := tracing.InitTracing(ctx, a.cfg.OTELEndpoint, a.cfg.OTELServiceName, a.logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					a.logger.WithError(err).Warn("failed to flush traces")
				}
			}()

			table, err := residuals.LoadOrDefault(a.cfg.ResidualTablePath)
			if err != nil {
				return err
			}

			repo, closeFn, err := a.openGarage(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			a.logger.WithFields(logrus.Fields{
				"storage": a.cfg.StorageBackend,
				"port":    a.cfg.Port,
			}).Info("starting vehicle equity server")

			registry := tools.NewRegistry(a.cfg, tracer, table)
			return server.New(a.cfg, registry, repo, a.logger).Run(ctx)
		},
	}

	cmd.Flags().Int("port", 8000, "HTTP port")
	return cmd
}
