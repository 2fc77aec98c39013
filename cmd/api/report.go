package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	reporthandler "github.com/jwalitptl/dentalcare-api/internal/handler/report"
	"github.com/jwalitptl/dentalcare-api/internal/model"
)

func newReportCommand() *cobra.Command {
	var period, start, end string

	cmd := &cobra.Command{
		Use:       "report <patients|appointments|financial|pharmacy>",
		Short:     "Print a statistics report as JSON",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"patients", "appointments", "financial", "pharmacy"},
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := reporthandler.ParseRequest(period, start, end)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.reportService().Build(cmd.Context(), model.ReportKind(args[0]), req)
			if err != nil {
				return fmt.Errorf("failed to build %s report: %w", args[0], err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		},
	}

	today := time.Now().Format(model.DateLayout)
	cmd.Flags().StringVar(&period, "period", "monthly", "period label recorded with the report")
	cmd.Flags().StringVar(&start, "start", time.Now().AddDate(0, -5, 0).Format("2006-01")+"-01", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", today, "last day, YYYY-MM-DD")
	return cmd
}
