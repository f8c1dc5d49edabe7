// Command meshc drives the Mesh compiler middle-end from the command
// line: lowering a fixture-described module to MIR, and exercising the
// STF wire codec against a JSON value description. The real lexer,
// parser, and type-checker front-end, and the LLVM/codegen backend,
// are external collaborators this binary does not implement.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/malphas-lang/malphas-lang/internal/config"
	"github.com/malphas-lang/malphas-lang/internal/logging"
)

var (
	flagLogLevel  string
	flagLogFormat string
	flagConfig    string
)

func main() {
	root := &cobra.Command{
		Use:   "meshc",
		Short: "Mesh compiler middle-end: MIR lowering and the STF wire codec",
	}
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "debug|info|warn|error (default from meshc.yaml or \"info\")")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "text|json (default from meshc.yaml or \"text\")")
	root.PersistentFlags().StringVar(&flagConfig, "config", "meshc.yaml", "path to the project config file")

	root.AddCommand(newLowerCmd(), newSTFCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig merges the project file, environment, and the
// --log-level/--log-format flags in increasing precedence order.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
	return cfg, nil
}

func newLoggerFromConfig(cfg config.Config) *slog.Logger {
	return logging.NewDefault(cfg.LogLevel, cfg.LogFormat)
}
