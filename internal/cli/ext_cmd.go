package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pbxdeck/pbxdeck/internal/cli/formatter"
	"github.com/pbxdeck/pbxdeck/internal/domain"
	"github.com/spf13/cobra"
)

func newExtensionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "extensions",
		Aliases: []string{"ext"},
		Short:   "Manage a tenant's extensions",
	}

	cmd.AddCommand(
		newExtensionsListCmd(app),
		newExtensionsAddCmd(app),
		newExtensionsRemoveCmd(app),
	)

	return cmd
}

func newExtensionsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list TENANT",
		Short: "List a tenant's extensions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			t, err := resolveTenant(ctx, app, args[0])
			if err != nil {
				return err
			}
			exts, err := app.Extensions.ListByTenant(ctx, t.ID)
			if err != nil {
				return err
			}
			if len(exts) == 0 {
				fmt.Printf("No extensions for tenant %s.\n", t.Slug)
				return nil
			}
			fmt.Printf("%s\n", formatter.FormatExtensionList(exts))
			return nil
		},
	}
}

func newExtensionsAddCmd(app *App) *cobra.Command {
	var number, name, extType, destination string

	cmd := &cobra.Command{
		Use:   "add TENANT",
		Short: "Register an extension for a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			t, err := resolveTenant(ctx, app, args[0])
			if err != nil {
				return err
			}
			e := &domain.Extension{
				TenantID:    t.ID,
				Number:      number,
				Name:        name,
				Type:        domain.ExtensionType(extType),
				Destination: destination,
			}
			if err := app.Extensions.Create(ctx, e); err != nil {
				return err
			}
			fmt.Printf("Created extension %s (%s) for tenant %s\n", e.Number, e.Name, t.Slug)
			return nil
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "Dialable extension number")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&extType, "type", "", "Extension type: user, queue, ivr or voicemail (default user)")
	cmd.Flags().StringVar(&destination, "destination", "", "Dial target, such as a device or queue reference")
	_ = cmd.MarkFlagRequired("number")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newExtensionsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm EXTENSION_ID",
		Short: "Remove an extension",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid extension id %q", args[0])
			}
			if err := app.Extensions.Delete(context.Background(), id); err != nil {
				return err
			}
			fmt.Printf("Removed extension %d\n", id)
			return nil
		},
	}
}
