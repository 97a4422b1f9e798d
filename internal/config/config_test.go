package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/finance-flags/internal/flags"
	"github.com/iwvelando/finance-flags/pkg/constants"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoadConfigurationDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "json", cfg.Logging.Format)
	require.Equal(t, constants.OutputFormatPretty, cfg.Output.Format)
	require.Equal(t, constants.DefaultServerAddress, cfg.Server.Address)
	require.Equal(t, constants.DefaultMaxUploadSizeBytes, cfg.Server.UploadSizeBytes())
	require.Equal(t, 10*time.Second, cfg.Server.ReadTimeoutDuration())
	require.Equal(t, 15*time.Second, cfg.Server.WriteTimeoutDuration())
	require.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeoutDuration())
	require.Equal(t, float64(constants.MinRevenue), cfg.Evaluation.MinRevenue)
	require.Equal(t, constants.MaxBorrowingRatio, cfg.Evaluation.MaxBorrowingRatio)
	require.Equal(t, float64(constants.MinISCR), cfg.Evaluation.MinISCR)
	require.Equal(t, constants.MissingDataSentinel, cfg.Evaluation.MissingData)
	require.Empty(t, cfg.Warnings())
}

func TestLoadConfigurationEmptyPath(t *testing.T) {
	cfg, err := LoadConfiguration("")
	require.NoError(t, err)
	require.Equal(t, constants.DefaultServerAddress, cfg.Server.Address)
}

func TestLoadConfigurationOverrides(t *testing.T) {
	path := writeConfig(t, `logging:
  level: debug
  format: console
  outputFile: /tmp/flags.log
output:
  format: csv
server:
  address: 127.0.0.1:9000
  maxUploadSize: 2M
  readTimeout: 3s
evaluation:
  minRevenue: 100000000
  maxBorrowingRatio: 0.5
  minISCR: 1.5
  missingData: flag
`)

	cfg, err := LoadConfiguration(path)
	require.NoError(t, err)

	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "console", cfg.Logging.Format)
	require.Equal(t, "/tmp/flags.log", cfg.Logging.OutputFile)
	require.Equal(t, "csv", cfg.Output.Format)
	require.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	require.Equal(t, int64(2*1024*1024), cfg.Server.UploadSizeBytes())
	require.Equal(t, 3*time.Second, cfg.Server.ReadTimeoutDuration())
	require.Equal(t, 15*time.Second, cfg.Server.WriteTimeoutDuration())
	require.Equal(t, 100_000_000.0, cfg.Evaluation.MinRevenue)
	require.Equal(t, 0.5, cfg.Evaluation.MaxBorrowingRatio)
	require.Equal(t, 1.5, cfg.Evaluation.MinISCR)
	require.Equal(t, constants.MissingDataFlag, cfg.Evaluation.MissingData)
	require.Len(t, cfg.Warnings(), 4)
}

func TestLoadConfigurationEnvironmentOverrides(t *testing.T) {
	t.Setenv("FINFLAGS_SERVER_ADDRESS", ":9191")
	t.Setenv("FINFLAGS_EVALUATION_MINISCR", "3")
	t.Setenv("FINFLAGS_OUTPUT_FORMAT", "json")

	path := writeConfig(t, "server:\n  address: :7000\n")
	cfg, err := LoadConfiguration(path)
	require.NoError(t, err)

	require.Equal(t, ":9191", cfg.Server.Address)
	require.Equal(t, 3.0, cfg.Evaluation.MinISCR)
	require.Equal(t, "json", cfg.Output.Format)
}

func TestLoadConfigurationInvalid(t *testing.T) {
	tests := map[string]string{
		"invalid yaml":           "server: [",
		"invalid upload size":    "server:\n  maxUploadSize: invalid\n",
		"unsupported size unit":  "server:\n  maxUploadSize: 1TB\n",
		"invalid timeout":        "server:\n  readTimeout: soon\n",
		"negative timeout":       "server:\n  writeTimeout: -1s\n",
		"invalid output format":  "output:\n  format: xml\n",
		"invalid log level":      "logging:\n  level: trace\n",
		"invalid log format":     "logging:\n  format: text\n",
		"invalid missing policy": "evaluation:\n  missingData: ignore\n",
		"zero revenue threshold": "evaluation:\n  minRevenue: 0\n",
		"negative ratio":         "evaluation:\n  maxBorrowingRatio: -0.1\n",
		"zero iscr":              "evaluation:\n  minISCR: 0\n",
	}

	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfiguration(writeConfig(t, contents))
			require.Error(t, err)
		})
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	cfg, err := LoadConfigurationFromReader(strings.NewReader("evaluation:\n  maxBorrowingRatio: 0.3\n"))
	require.NoError(t, err)
	require.Equal(t, 0.3, cfg.Evaluation.MaxBorrowingRatio)
	require.Equal(t, constants.MissingDataSentinel, cfg.Evaluation.MissingData)

	_, err = LoadConfigurationFromReader(strings.NewReader("evaluation: ["))
	require.Error(t, err)
}

func TestEvaluatorOptions(t *testing.T) {
	cfg, err := LoadConfigurationFromReader(strings.NewReader("evaluation:\n  minISCR: 2.5\n  missingData: flag\n"))
	require.NoError(t, err)

	opts := cfg.EvaluatorOptions()
	require.Equal(t, "2.5", opts.Thresholds.MinISCR.String())
	require.Equal(t, "0.25", opts.Thresholds.MaxBorrowingRatio.String())
	require.Equal(t, "50000000", opts.Thresholds.MinRevenue.String())
	require.Equal(t, constants.MissingDataFlag, opts.MissingData)

	defaults := flags.DefaultThresholds()
	require.True(t, defaults.MaxBorrowingRatio.Equal(opts.Thresholds.MaxBorrowingRatio))
}

func TestConfigurationYAML(t *testing.T) {
	cfg, err := LoadConfiguration("")
	require.NoError(t, err)

	data, err := cfg.YAML()
	require.NoError(t, err)

	var rendered map[string]map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &rendered))
	require.Equal(t, ":8080", rendered["server"]["address"])
	require.Equal(t, "256K", rendered["server"]["maxUploadSize"])
	require.Equal(t, "sentinel", rendered["evaluation"]["missingData"])
	require.Equal(t, 0.25, rendered["evaluation"]["maxBorrowingRatio"])

	reloaded, err := LoadConfigurationFromReader(strings.NewReader(string(data)))
	require.NoError(t, err)
	require.Equal(t, cfg.Evaluation, reloaded.Evaluation)
}

func TestSetUploadSizeBytes(t *testing.T) {
	cfg, err := LoadConfiguration("")
	require.NoError(t, err)

	cfg.Server.SetUploadSizeBytes(1024)
	require.Equal(t, int64(1024), cfg.Server.UploadSizeBytes())
	require.Equal(t, "1024", cfg.Server.MaxUploadSize)

	cfg.Server.SetUploadSizeBytes(0)
	require.Equal(t, int64(1024), cfg.Server.UploadSizeBytes())
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxUploadSizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"  4096   ": 4096,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		require.NoError(t, err, "ParseSize(%q)", input)
		require.Equal(t, expected, got, "ParseSize(%q)", input)
	}

	for _, input := range []string{"1TB", "2G", "abc", "K"} {
		_, err := ParseSize(input)
		require.Error(t, err, "ParseSize(%q)", input)
	}
}
