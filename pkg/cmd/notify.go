package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kpcyrd/sn0int/pkg/notify"
)

// newNotifyCmd wraps the notification router, grounded on
// _examples/original_source/src/cmd/notify_cmd.rs and
// src/notify/mod.rs. `outbox`/`deliver` were still `todo!()` in the
// original; this build has no persistent outbox, so both report that
// directly rather than pretending to implement queueing.
func newNotifyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Manage and route notifications",
	}

	cmd.AddCommand(newNotifySendCmd(app))
	cmd.AddCommand(newNotifyOutboxCmd())
	cmd.AddCommand(newNotifyExecCmd(app))
	cmd.AddCommand(newNotifyDeliverCmd())
	return cmd
}

func notifyRouter(app *App) *notify.Router {
	configs := make(map[string]notify.Config, len(app.Config.Notifications))
	for name, nc := range app.Config.Notifications {
		topics := make([]notify.Glob, 0, len(nc.Topics))
		for _, t := range nc.Topics {
			g, err := notify.ParseGlob(t)
			if err != nil {
				continue
			}
			topics = append(topics, g)
		}
		configs[name] = notify.Config{
			Name:       name,
			Workspaces: nc.Workspaces,
			Topics:     topics,
			Script:     nc.Script,
			Options:    nc.Options,
		}
	}
	return notify.NewRouter(configs, false)
}

// newNotifySendCmd prints the routes that match the current workspace and
// the topic; it does not execute the routed modules (`notify exec` runs a
// module with a notification argument). --subject and --body are accepted
// but not used by send, and --dry-run only marks the printed routes.
func newNotifySendCmd(app *App) *cobra.Command {
	var dryRun bool
	var subject string
	var body string

	cmd := &cobra.Command{
		Use:   "send <topic>",
		Short: "Route a notification through the configured rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			router := notifyRouter(app)
			router.DryRun = dryRun

			routes := router.Route(app.Workspace, args[0])
			if len(routes) == 0 {
				fmt.Println("No notification config matched this workspace/topic")
				return nil
			}
			for _, route := range routes {
				fmt.Println(route.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "evaluate routing rules without executing anything")
	cmd.Flags().StringVar(&subject, "subject", "", "notification subject")
	cmd.Flags().StringVar(&body, "body", "", "notification body")
	return cmd
}

func newNotifyOutboxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outbox",
		Short: "Show queued notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(color.YellowString("Outbox is empty: this build has no notification queue"))
			return nil
		},
	}
}

func newNotifyDeliverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deliver",
		Short: "Deliver queued notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Nothing to deliver: notifications have no persistent outbox in this build")
			return nil
		},
	}
}

func newNotifyExecCmd(app *App) *cobra.Command {
	var options []string
	var subject string
	var body string

	cmd := &cobra.Command{
		Use:   "exec <module>",
		Short: "Run a notification-sourced module directly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			local, err := app.LocalRegistry()
			if err != nil {
				return err
			}
			mod, err := local.Lookup(args[0])
			if err != nil {
				return err
			}

			var bodyPtr *string
			if body != "" {
				bodyPtr = &body
			}
			arg := notify.Notification{Subject: subject, Body: bodyPtr}

			return runModuleOnArg(app, mod, arg, options)
		},
	}

	cmd.Flags().StringArrayVarP(&options, "option", "o", nil, "module option key=value")
	cmd.Flags().StringVar(&subject, "subject", "", "notification subject")
	cmd.Flags().StringVar(&body, "body", "", "notification body")
	return cmd
}
