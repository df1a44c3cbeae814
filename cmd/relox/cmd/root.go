package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	mdwlog "github.com/themifi/relox/foundation/core/log"
	"github.com/themifi/relox/pkg/core/config"
	"github.com/themifi/relox/pkg/core/logging"
)

// Process exit codes
const (
	exitOK          = 0
	exitUsage       = 64
	exitDataErr     = 65
	exitUnavailable = 69
	exitSoftware    = 70
	exitIOErr       = 74
	exitConfig      = 78
)

// exitError carries the process exit code of a failed command. A nil err
// means the command already reported the failure.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func exitWith(code int, err error) error {
	return &exitError{code: code, err: err}
}

// app holds state shared by all commands of one invocation
type app struct {
	cfgFile string
	verbose bool
	noColor bool

	cfg    *config.Config
	logger *logging.Logger
	styles styles
	stdin  io.Reader
}

func newRootCmd(stdin io.Reader) *cobra.Command {
	a := &app{stdin: stdin}

	root := &cobra.Command{
		Use:   "relox",
		Short: "relox - Lox expression interpreter",
		Long: `relox scans, parses and evaluates Lox expressions.

Expressions cover literals, grouping, unary ! and -, arithmetic,
comparison and equality. Results print in Lox notation; lexical and
syntax errors exit with 65, runtime errors with 70.

Commands:
  run      - evaluate a script, an -e expression or stdin
  tokens   - print the token stream
  ast      - print the expression tree
  serve    - start the gRPC interpreter service
  eval     - evaluate on a running server
  history  - list journaled evaluations`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $RELOX_CONFIG or ./configs/config.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newRunCmd(a),
		newTokensCmd(a),
		newASTCmd(a),
		newServeCmd(a),
		newEvalCmd(a),
		newHistoryCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup loads configuration and builds the logger
func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return exitWith(exitConfig, err)
	}

	logCfg := logging.FromConfig("relox", a.cfg.Log)
	if a.verbose {
		logCfg.Level = "debug"
	}
	logCfg.NoColor = a.noColor
	if logCfg.Output == "stderr" {
		logCfg.Writer = cmd.ErrOrStderr()
	}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return exitWith(exitConfig, err)
	}
	mdwlog.SetDefault(logger)
	a.logger = logging.Wrap(logger)

	a.styles = newStyles(!a.noColor && os.Getenv("NO_COLOR") == "")
	return nil
}

// Execute runs the command line and returns the process exit code
func Execute() int {
	defer logging.CloseOutputs()
	return execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return exitOK
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exit.err)
		}
		return exit.code
	}

	// flag and argument errors from cobra
	fmt.Fprintf(stderr, "Error: %v\n", err)
	fmt.Fprintln(stderr, root.UsageString())
	return exitUsage
}
