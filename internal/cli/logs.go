package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/services"
)

// LogsOptions holds flags for the logs command.
type LogsOptions struct {
	*RootOptions
	UserID string
	Type   string
	Limit  int
}

// NewLogsCommand creates the logs command.
func NewLogsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List a user's activity log, newest first",
		Example: `  habitctl logs --user 6f1c... --type goal --limit 20
  habitctl logs --user 6f1c... --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogs(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.UserID, "user", "", "user id (required)")
	_ = cmd.MarkFlagRequired("user")
	cmd.Flags().StringVar(&opts.Type, "type", "", "only entries of this type (habit|goal|system|friend|event)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 50, "maximum number of entries")

	return cmd
}

func runLogs(cmd *cobra.Command, opts *LogsOptions) error {
	out := printer{format: opts.Format, w: cmd.OutOrStdout()}
	rt, err := openRuntime(opts.RootOptions)
	if err != nil {
		return out.Failure(err)
	}
	defer rt.Close()

	logs, err := rt.activity.Timeline(cmd.Context(), opts.UserID, services.TimelineQuery{
		Type:  models.ActivityType(opts.Type),
		Limit: opts.Limit,
	})
	if err != nil {
		return out.Failure(err)
	}

	return out.Success(logs, func(w io.Writer) {
		if len(logs) == 0 {
			fmt.Fprintln(w, "no entries")
			return
		}
		for _, l := range logs {
			fmt.Fprintln(w, formatLog(l))
		}
	})
}

func formatLog(l models.ActivityLog) string {
	line := fmt.Sprintf("%s  %s  %-6s  %s", l.ID, l.Timestamp.Format("2006-01-02 15:04"), l.Type, l.Description)
	switch {
	case l.Reversed:
		line += "  [reversed]"
	case l.Reversible:
		line += "  [reversible]"
	}
	return line
}

// ReverseOptions holds flags for the reverse command.
type ReverseOptions struct {
	*RootOptions
	UserID string
}

// NewReverseCommand creates the reverse command.
func NewReverseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReverseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reverse LOG_ID",
		Short: "Reverse a habit or goal progress entry",
		Long: `Reverse a habit or goal progress entry directly in the database.

This is an offline maintenance command: run it while the server is stopped.
A running server keeps each active user's view in memory and will not see
the change until it restarts, so later requests can act on stale totals.`,
		Example: `  habitctl reverse 9b2e... --user 6f1c...`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReverse(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.UserID, "user", "", "owner of the entry (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runReverse(cmd *cobra.Command, opts *ReverseOptions, logID string) error {
	out := printer{format: opts.Format, w: cmd.OutOrStdout()}
	rt, err := openRuntime(opts.RootOptions)
	if err != nil {
		return out.Failure(err)
	}
	defer rt.Close()

	res, err := rt.activity.ReverseEntry(cmd.Context(), opts.UserID, logID)
	if err != nil {
		return out.Failure(err)
	}
	if err := res.Wait(cmd.Context()); err != nil {
		return out.Failure(err)
	}

	entry, _ := res.State.Log(logID)
	return out.Success(map[string]any{"entry": entry, "warnings": res.Warnings}, func(w io.Writer) {
		fmt.Fprintln(w, formatLog(entry))
		for _, warn := range res.Warnings {
			fmt.Fprintf(w, "warning: %s: %s\n", warn.Code, warn.Message)
		}
	})
}
