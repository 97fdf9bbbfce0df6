package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/pbxdeck/pbxdeck/internal/bridge"
	"github.com/pbxdeck/pbxdeck/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newCallsCmd(app *App) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "calls TENANT",
		Short: "Show a tenant's active calls",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			t, err := resolveTenant(ctx, app, args[0])
			if err != nil {
				return err
			}

			calls, err := app.Calls.Active(ctx, t.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatActiveCalls(calls, time.Now()))

			if !watch {
				return nil
			}
			return watchCalls(app, t.ID)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Keep streaming call events until interrupted")

	return cmd
}

// watchCalls prints live call events from the bridge until Ctrl-C.
func watchCalls(app *App, tenantID int64) error {
	if app.Bridge == nil {
		return fmt.Errorf("live events are not configured (set PBXDECK_WS_URL)")
	}

	unsubscribe := app.Bridge.Subscribe(func(ev bridge.Event) {
		switch ev.Type {
		case "call_started":
			if ev.Call != nil {
				fmt.Printf("%s %s %s %s\n",
					formatter.StyleGreen.Render("▲"),
					formatter.Bold(ev.Call.Caller),
					formatter.Dim("→"),
					ev.Call.Callee)
			}
		case "call_ended":
			fmt.Printf("%s call %s ended\n", formatter.StyleRed.Render("▼"), ev.CallID)
		}
	})
	defer unsubscribe()

	app.Bridge.Connect(tenantID)
	defer app.Bridge.Disconnect()

	fmt.Println(formatter.Dim("Watching call events, Ctrl-C to stop."))
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	return nil
}

func newDialCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dial TENANT FROM TO",
		Short: "Originate a call between two endpoints",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			t, err := resolveTenant(ctx, app, args[0])
			if err != nil {
				return err
			}
			callID, err := app.Calls.Dial(ctx, t.ID, args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Printf("Dialing %s %s %s (call %s)\n", args[1], formatter.Dim("→"), args[2], callID)
			return nil
		},
	}

	return cmd
}
