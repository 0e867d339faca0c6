package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"barman/lib/fetch"
	"barman/lib/releaseflow"
	"barman/lib/scrapers/jv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	releasesPlatform string
	releasesWindow   string
)

func init() {
	releasesCmd.Flags().StringVar(&releasesPlatform, "platform", "", "All, PS5, Xbox, Switch or PC, prompted when absent.")
	releasesCmd.Flags().StringVar(&releasesWindow, "window", "", "day, week, month or quarter, prompted when absent.")
	rootCmd.AddCommand(releasesCmd)
}

func newCalendar() (jv.Calendar, error) {
	fetcher, err := fetch.NewClient(fetch.OptionsFromConfig(cfg.Fetch), tel)
	if err != nil {
		return jv.Calendar{}, err
	}
	return jv.NewCalendar(cfg.Releases, fetcher, tel)
}

func printPages(pages []releaseflow.Page) {
	for _, page := range pages {
		t := newTable()
		t.SetTitle(page.Title)
		t.AppendHeader(table.Row{"Game", "Details"})
		for _, entry := range page.Entries {
			t.AppendRow(table.Row{entry.Name, strings.Join(entry.Lines, "\n")})
			t.AppendSeparator()
		}
		if len(page.Entries) == 0 {
			t.AppendRow(table.Row{"-", "no releases"})
		}
		t.Render()
	}
}

func prompt(in *bufio.Reader, question string) (string, error) {
	fmt.Fprint(os.Stderr, question)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func runQuery(ctx context.Context, calendar jv.Calendar, flow *releaseflow.Flow, window jv.Window) error {
	q, err := flow.SelectWindow(window)
	if err != nil {
		return err
	}
	defer flow.Done()

	if q.Platform.CoverageNote != "" {
		fmt.Fprintf(os.Stderr, "note: %s %s\n", q.Platform.Name, q.Platform.CoverageNote)
	}
	fmt.Fprintln(os.Stderr, "this takes a while, it is normal!")

	releases, err := calendar.FetchWindow(ctx, q.Platform, q.Window)
	if err != nil && len(releases) == 0 {
		return err
	}
	if err != nil {
		tel.ReportWarning("releases", "listing is partial", err)
	}
	printPages(releaseflow.Pages(releases, q))
	return nil
}

var releasesCmd = &cobra.Command{
	Use:   "releases [--platform <platform>] [--window <window>]",
	Short: "Lists the upcoming game releases of a platform.",
	RunE: func(cmd *cobra.Command, args []string) error {
		calendar, err := newCalendar()
		if err != nil {
			return err
		}
		flow := releaseflow.New()
		in := bufio.NewReader(os.Stdin)

		platformInput := releasesPlatform
		if platformInput == "" {
			platformInput, err = prompt(in, "platform (All, PS5, Xbox, Switch, PC): ")
			if err != nil {
				return err
			}
		}
		platform, err := jv.ParsePlatform(platformInput)
		if err != nil {
			return err
		}
		err = flow.SelectPlatform(platform)
		if err != nil {
			return err
		}

		if releasesWindow != "" {
			window, err := jv.ParseWindow(releasesWindow)
			if err != nil {
				return err
			}
			return runQuery(cmd.Context(), calendar, flow, window)
		}

		for {
			answer, err := prompt(in, "window (day, week, month, quarter), empty to quit: ")
			if err != nil || answer == "" {
				return nil
			}
			window, err := jv.ParseWindow(answer)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			err = runQuery(cmd.Context(), calendar, flow, window)
			if err != nil {
				return err
			}
		}
	},
}
