package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NotificationsOptions holds flags for the notifications command.
type NotificationsOptions struct {
	*RootOptions
	UserID string
}

// NewNotificationsCommand creates the notifications command.
func NewNotificationsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NotificationsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Print the notifications a user would currently see",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotifications(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.UserID, "user", "", "user id (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runNotifications(cmd *cobra.Command, opts *NotificationsOptions) error {
	out := printer{format: opts.Format, w: cmd.OutOrStdout()}
	rt, err := openRuntime(opts.RootOptions)
	if err != nil {
		return out.Failure(err)
	}
	defer rt.Close()

	notifications, err := rt.notifications.GetNotifications(cmd.Context(), opts.UserID)
	if err != nil {
		return out.Failure(err)
	}

	return out.Success(notifications, func(w io.Writer) {
		if len(notifications) == 0 {
			fmt.Fprintln(w, "no notifications")
			return
		}
		for _, n := range notifications {
			mark := " "
			if !n.Read {
				mark = "*"
			}
			fmt.Fprintf(w, "%s %s  %s\n", mark, n.ID, n.Message)
		}
	})
}

// NewPruneCommand creates the prune command.
func NewPruneCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete expired notification dismissals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := printer{format: opts.Format, w: cmd.OutOrStdout()}
			rt, err := openRuntime(opts)
			if err != nil {
				return out.Failure(err)
			}
			defer rt.Close()

			n, err := rt.notifications.PruneExpired(cmd.Context())
			if err != nil {
				return out.Failure(err)
			}
			return out.Success(map[string]int64{"deleted": n}, func(w io.Writer) {
				fmt.Fprintf(w, "deleted %d expired dismissal(s)\n", n)
			})
		},
	}
}
