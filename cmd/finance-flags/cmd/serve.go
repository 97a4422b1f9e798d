package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/finance-flags/internal/config"
	"github.com/iwvelando/finance-flags/internal/flags"
	"github.com/iwvelando/finance-flags/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) serveCommand() *cobra.Command {
	var (
		address       string
		maxUploadSize string
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload form and the flags API",
		Long:  `Starts the HTTP server. Ctrl+C shuts it down gracefully.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if address != "" {
				a.conf.Server.Address = address
			}
			if maxUploadSize != "" {
				size, err := config.ParseSize(maxUploadSize)
				if err != nil {
					return err
				}
				a.conf.Server.SetUploadSizeBytes(size)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			evaluator := flags.NewEvaluator(a.logger, a.conf.EvaluatorOptions())
			handler := server.NewHandler(a.logger, evaluator, a.conf.Server.UploadSizeBytes(), a.version)

			a.logger.Info("starting finance-flags server",
				zap.String("op", "cmd.serve"),
				zap.String("version", a.version),
				zap.String("address", a.conf.Server.Address),
				zap.Int64("maxUploadSize", a.conf.Server.UploadSizeBytes()),
				zap.String("missingData", a.conf.Evaluation.MissingData),
			)
			return server.Run(ctx, a.logger, a.conf.Server, handler)
		},
	}

	serveCmd.Flags().StringVar(&address, "address", "", "listen address override (e.g. :8080)")
	serveCmd.Flags().StringVar(&maxUploadSize, "max-upload-size", "", "upload size limit override (e.g. 512K, 1M)")
	return serveCmd
}
