// Package cmd implements the oil command line.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/oil/foundation/core/log"
	"github.com/msto63/oil/foundation/oil"
	"github.com/msto63/oil/pkg/core/config"
)

// ErrReported is returned when a command already wrote its diagnostics
var ErrReported = errors.New("failure reported")

// app carries the global flags and what setup builds from them
type app struct {
	cfgFile   string
	logLevel  string
	logFormat string
	verbose   bool

	config *config.Config
	logger *mdwlog.Logger
	engine *oil.Engine
}

// NewRootCommand builds the oil command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "oil",
		Short: "oil notation toolkit",
		Long: `oil lexes and parses oil notation: expressions, selectors, object
literals, compound numbers and verbatim blocks.

Commands:
  parse    - parse files or stdin into the interchange form
  lex      - list the tokens of a file
  check    - validate files
  serve    - run the gRPC parse service and the live endpoint
  status   - probe a running service
  repl     - interactive parser
  version  - show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $"+config.EnvVar+" or ./oil.toml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text, json")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output (debug logging)")

	root.AddCommand(
		newParseCmd(a),
		newLexCmd(a),
		newCheckCmd(a),
		newServeCmd(a),
		newStatusCmd(a),
		newReplCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command against the process arguments
func Execute() error {
	root := NewRootCommand()
	err := root.Execute()
	if err != nil && !errors.Is(err, ErrReported) {
		printError(root.ErrOrStderr(), err)
	}
	return err
}

// setup loads the configuration, applies flag overrides and builds the
// logger and engine shared by the subcommands
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.General.LogLevel = a.logLevel
	}
	if a.verbose {
		cfg.General.LogLevel = "debug"
	}
	if a.logFormat != "" {
		cfg.General.LogFormat = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logCfg, err := cfg.LogConfig()
	if err != nil {
		return err
	}
	logCfg.Output = cmd.ErrOrStderr()
	a.logger = mdwlog.NewWithConfig(logCfg)

	a.engine, err = oil.NewEngine(oil.Options{
		Logger:         a.logger,
		MaxInputLength: cfg.Parser.MaxInputLength,
	})
	if err != nil {
		return err
	}

	a.config = cfg
	a.logger.Debug("configuration loaded", mdwlog.Fields{
		"config":   a.cfgFile,
		"level":    cfg.General.LogLevel,
		"maxInput": cfg.Parser.MaxInputLength,
	})
	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.cfgFile != "" {
		return config.Load(a.cfgFile)
	}
	return config.LoadFromEnv()
}

// input is one named source text
type input struct {
	name string
	text string
}

// readInputs reads the named files, or stdin when there are none or the
// name is "-"
func readInputs(cmd *cobra.Command, args []string) ([]input, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}

	inputs := make([]input, 0, len(args))
	for _, name := range args {
		var (
			data []byte
			err  error
		)
		if name == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
			name = "<stdin>"
		} else {
			data, err = os.ReadFile(name)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		inputs = append(inputs, input{name: name, text: string(data)})
	}
	return inputs, nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}
