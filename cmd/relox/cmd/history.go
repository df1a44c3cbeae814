package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/themifi/relox/internal/interpreter/store"
)

const historySourceWidth = 40

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	var addr string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled evaluations",
		Long: `Lists the most recent evaluations, newest first. Without --addr the
local journal at journal.path is read; with --addr the server's journal
is queried.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []*store.Entry
			var err error
			if addr != "" {
				entries, err = a.remoteHistory(cmd, addr, limit)
			} else {
				entries, err = a.localHistory(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), a.styles.mutedText("no evaluations recorded"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.historyTable(entries))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultRecentLimit, "number of entries")
	cmd.Flags().StringVar(&addr, "addr", "", "query a server instead of the local journal")
	return cmd
}

func (a *app) localHistory(ctx context.Context, limit int) ([]*store.Entry, error) {
	journal, err := a.openJournal()
	if err != nil {
		return nil, exitWith(exitIOErr, err)
	}
	if journal == nil {
		return nil, exitWith(exitConfig, errors.New("journal.path is not set"))
	}
	defer journal.Close()

	entries, err := journal.Recent(ctx, limit)
	if err != nil {
		return nil, exitWith(exitIOErr, err)
	}
	return entries, nil
}

func (a *app) remoteHistory(cmd *cobra.Command, addr string, limit int) ([]*store.Entry, error) {
	c, err := a.dial(addr)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	ctx, cancel := a.requestContext(cmd)
	defer cancel()

	entries, err := c.History(ctx, limit)
	if err != nil {
		return nil, rpcError(err)
	}
	return entries, nil
}

func (a *app) historyTable(entries []*store.Entry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.Status,
			fmt.Sprintf("%.3f", e.DurationMS),
			oneLine(e.Source, historySourceWidth),
			oneLine(e.Output, historySourceWidth),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TIME", "STATUS", "MS", "SOURCE", "OUTPUT").
		Rows(rows...)
	if a.styles.color {
		t = t.BorderStyle(a.styles.muted).
			StyleFunc(func(row, col int) lipgloss.Style {
				style := lipgloss.NewStyle().Padding(0, 1)
				switch {
				case row == table.HeaderRow:
					return a.styles.header.Padding(0, 1)
				case col == 1 && rows[row][1] != "ok":
					return style.Foreground(colorError)
				}
				return style
			})
	}
	return t.String()
}

// oneLine flattens newlines and truncates to width runes
func oneLine(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s
}
