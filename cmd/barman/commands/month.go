package commands

import (
	"fmt"

	"barman/lib/scrapers/jv"
	"barman/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	monthMonth    int
	monthYear     int
	monthPlatform string
)

func init() {
	now := timezone.Now()
	monthCmd.Flags().IntVar(&monthMonth, "month", int(now.Month()), "Month number, 1 to 12.")
	monthCmd.Flags().IntVar(&monthYear, "year", now.Year(), "Year.")
	monthCmd.Flags().StringVar(&monthPlatform, "platform", "All", "All, PS5, Xbox, Switch or PC.")
	rootCmd.AddCommand(monthCmd)
}

var monthCmd = &cobra.Command{
	Use:   "month [--month <1-12>] [--year <year>] [--platform <platform>]",
	Short: "Lists every release of a calendar month.",
	RunE: func(cmd *cobra.Command, args []string) error {
		platform, err := jv.ParsePlatform(monthPlatform)
		if err != nil {
			return err
		}
		calendar, err := newCalendar()
		if err != nil {
			return err
		}

		releases, err := calendar.FetchMonth(cmd.Context(), monthMonth, monthYear, platform)
		if err != nil && len(releases) == 0 {
			return err
		}
		if err != nil {
			tel.ReportWarning("month", "listing is partial", err)
		}
		jv.SortByDate(releases)

		t := newTable()
		t.SetTitle(fmt.Sprintf("Releases of %02d/%d on %s", monthMonth, monthYear, platform.Name))
		t.AppendHeader(table.Row{"Date", "Game", "Platforms", "URL"})
		for _, r := range releases {
			date := r.ReleaseText
			if !r.Date.Equal(jv.SentinelDate) {
				date = r.Date.Format("2006-01-02")
			}
			t.AppendRow(table.Row{date, r.Name, r.Platforms, r.URL})
		}
		t.Render()
		return nil
	},
}
