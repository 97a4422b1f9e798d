package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/finance-flags/internal/flags"
	"github.com/iwvelando/finance-flags/pkg/constants"
	"github.com/iwvelando/finance-flags/pkg/output"
	"github.com/iwvelando/finance-flags/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) evaluateCommand() *cobra.Command {
	var (
		file         string
		outputFormat string
	)

	evaluateCmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate the flags of a financial document",
		Long: `Reads a {"data": {"financials": [...]}} document and prints its flags.
Use --file - to read from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "cmd.evaluate"

			// CLI override takes precedence over config
			format := a.conf.Output.Format
			if outputFormat != "" {
				format = outputFormat
			}
			if format == "" {
				format = constants.OutputFormatPretty
			}
			if err := validation.ValidateOutputFormat(format); err != nil {
				return err
			}

			in, closeInput, err := openInput(cmd, file)
			if err != nil {
				return err
			}
			defer closeInput()

			doc, err := flags.DecodePayload(in)
			if err != nil {
				a.logger.Error("failed to decode financial document",
					zap.String("op", op),
					zap.String("file", file),
					zap.Error(err),
				)
				return err
			}

			report, err := flags.NewEvaluator(a.logger, a.conf.EvaluatorOptions()).Assess(doc)
			if err != nil {
				a.logger.Error("failed to evaluate flags",
					zap.String("op", op),
					zap.String("file", file),
					zap.Error(err),
				)
				return err
			}

			return output.Write(cmd.OutOrStdout(), format, report)
		},
	}

	evaluateCmd.Flags().StringVarP(&file, "file", "f", "", "financial document to evaluate, - for stdin")
	evaluateCmd.Flags().StringVar(&outputFormat, "output-format", "", "type of output override: pretty, csv, json")
	_ = evaluateCmd.MarkFlagRequired("file")
	return evaluateCmd
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}
