package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/pbxdeck/pbxdeck/internal/cli/formatter"
	"github.com/pbxdeck/pbxdeck/internal/domain"
	"github.com/pbxdeck/pbxdeck/internal/repository"
	"github.com/spf13/cobra"
)

func newCDRCmd(app *App) *cobra.Command {
	var from, to, disposition string
	var limit int
	var summary bool

	cmd := &cobra.Command{
		Use:   "cdr TENANT",
		Short: "Query a tenant's call detail records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			t, err := resolveTenant(ctx, app, args[0])
			if err != nil {
				return err
			}

			var filter repository.CDRFilter
			if from != "" {
				d, err := time.Parse("2006-01-02", from)
				if err != nil {
					return fmt.Errorf("invalid --from date %q: %w", from, err)
				}
				filter.From = &d
			}
			if to != "" {
				d, err := time.Parse("2006-01-02", to)
				if err != nil {
					return fmt.Errorf("invalid --to date %q: %w", to, err)
				}
				// Inclusive end date: filter up to the following midnight.
				d = d.AddDate(0, 0, 1)
				filter.To = &d
			}
			if disposition != "" {
				filter.Disposition = domain.Disposition(disposition)
			}
			filter.Limit = limit

			if summary {
				since := time.Time{}
				if filter.From != nil {
					since = *filter.From
				}
				s, err := app.Calls.Summary(ctx, t.ID, since)
				if err != nil {
					return err
				}
				fmt.Printf("%s\n", formatter.FormatCallSummary(s))
				return nil
			}

			records, err := app.Calls.Records(ctx, t.ID, filter)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatCallRecords(records))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Earliest call date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Latest call date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&disposition, "disposition", "", "Filter by disposition (answered|no_answer|busy|failed)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum rows to return (0 for all)")
	cmd.Flags().BoolVar(&summary, "summary", false, "Show aggregated counters instead of rows")

	return cmd
}
