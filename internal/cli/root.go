package cli

import (
	"github.com/pbxdeck/pbxdeck/internal/bridge"
	"github.com/pbxdeck/pbxdeck/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to the service interfaces and the live event
// bridge used by CLI commands.
type App struct {
	Tenants    service.TenantService
	Flows      service.FlowService
	Extensions service.ExtensionService
	Calls      service.CallService
	Bridge     *bridge.Client

	// IsInteractive reports whether stdin is a terminal. The editor
	// refuses to start without one. Nil means interactive (tests).
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "pbxdeck" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "pbxdeck",
		Short: "Multi-tenant PBX control panel",
	}

	root.AddCommand(
		newTenantCmd(app),
		newFlowsCmd(app),
		newExtensionsCmd(app),
		newCDRCmd(app),
		newCallsCmd(app),
		newDialCmd(app),
		newEditCmd(app),
	)

	return root
}
