package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pbxdeck/pbxdeck/internal/cli/formatter"
	"github.com/pbxdeck/pbxdeck/internal/domain"
	"github.com/spf13/cobra"
)

// resolveTenant accepts either a numeric tenant id or a slug.
func resolveTenant(ctx context.Context, app *App, input string) (*domain.Tenant, error) {
	if input == "" {
		return nil, fmt.Errorf("tenant id or slug is required")
	}
	if id, err := strconv.ParseInt(input, 10, 64); err == nil {
		return app.Tenants.GetByID(ctx, id)
	}
	return app.Tenants.GetBySlug(ctx, input)
}

func newTenantCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
	}

	cmd.AddCommand(
		newTenantListCmd(app),
		newTenantAddCmd(app),
		newTenantSuspendCmd(app),
		newTenantRemoveCmd(app),
	)

	return cmd
}

func newTenantListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tenants",
		RunE: func(cmd *cobra.Command, args []string) error {
			tenants, err := app.Tenants.List(context.Background())
			if err != nil {
				return err
			}
			if len(tenants) == 0 {
				fmt.Println("No tenants found.")
				return nil
			}
			fmt.Printf("%s\n", formatter.FormatTenantList(tenants))
			return nil
		},
	}
}

func newTenantAddCmd(app *App) *cobra.Command {
	var name, slug, email string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := &domain.Tenant{
				Name:  name,
				Slug:  slug,
				Email: email,
			}
			if err := app.Tenants.Create(context.Background(), t); err != nil {
				return err
			}
			fmt.Printf("Created tenant %s [%s]\n", t.Name, t.Slug)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Tenant display name")
	cmd.Flags().StringVar(&slug, "slug", "", "URL-safe identifier (derived from name when omitted)")
	cmd.Flags().StringVar(&email, "email", "", "Contact email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTenantSuspendCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "suspend TENANT",
		Short: "Suspend a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			t, err := resolveTenant(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Tenants.Suspend(ctx, t.ID); err != nil {
				return err
			}
			fmt.Printf("Suspended tenant %s\n", t.Slug)
			return nil
		},
	}
}

func newTenantRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm TENANT",
		Short: "Remove a tenant and everything under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			t, err := resolveTenant(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !force {
				return fmt.Errorf("removing %s deletes its flows and call records; re-run with --force", t.Slug)
			}
			if err := app.Tenants.Delete(ctx, t.ID); err != nil {
				return err
			}
			fmt.Printf("Removed tenant %s\n", t.Slug)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation guard")

	return cmd
}
