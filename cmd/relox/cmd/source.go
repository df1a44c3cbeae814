package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	mdwerror "github.com/themifi/relox/foundation/core/error"
	"github.com/themifi/relox/internal/interpreter/service"
	"github.com/themifi/relox/internal/interpreter/store"
)

// addSourceFlags registers -e on commands that take a script
func addSourceFlags(cmd *cobra.Command, expr *string) {
	cmd.Flags().StringVarP(expr, "expr", "e", "", "use this expression instead of a script")
}

// readSource returns the -e expression, the script named by args[0], or
// stdin, in that order
func (a *app) readSource(cmd *cobra.Command, args []string, expr string) (string, error) {
	exprSet := cmd.Flags().Changed("expr")
	switch {
	case exprSet && len(args) > 0:
		return "", exitWith(exitUsage, errors.New("use either a script or -e, not both"))
	case exprSet:
		return expr, nil
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", exitWith(exitIOErr, fmt.Errorf("cannot read script: %w", err))
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", exitWith(exitIOErr, fmt.Errorf("cannot read stdin: %w", err))
		}
		return string(data), nil
	}
}

// openJournal opens the configured journal. The returned journal is nil
// when journal.path is empty.
func (a *app) openJournal() (store.Journal, error) {
	if !a.cfg.JournalEnabled() {
		return nil, nil
	}
	j, err := store.Open(store.Config{Path: a.cfg.Journal.Path})
	if err != nil {
		return nil, err
	}
	return j, nil
}

// localService builds a service for in-process evaluation. A journal that
// cannot be opened is skipped with a warning.
func (a *app) localService() (*service.Service, func(), error) {
	journal, err := a.openJournal()
	if err != nil {
		a.logger.Warn("Journal disabled", "error", err)
		journal = nil
	}

	svc, err := service.NewService(service.Config{
		MaxDepth:       a.cfg.Interpreter.MaxDepth,
		MaxSourceBytes: a.cfg.Interpreter.MaxSourceBytes,
		Journal:        journal,
		Logger:         a.logger,
	})
	if err != nil {
		if journal != nil {
			journal.Close()
		}
		return nil, nil, exitWith(exitConfig, err)
	}

	closeFn := func() {
		if journal != nil {
			journal.Close()
		}
	}
	return svc, closeFn, nil
}

// requestError maps a rejected request to an exit code
func requestError(err error) error {
	if mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		return exitWith(exitDataErr, err)
	}
	return exitWith(exitSoftware, err)
}
