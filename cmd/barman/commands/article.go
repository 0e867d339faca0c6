package commands

import (
	"fmt"
	"log/slog"
	"os"

	"barman/lib/configutil"
	"barman/lib/delivery"
	"barman/lib/render"
	"barman/lib/retry"
	"barman/lib/scrapers/lemonde"

	"github.com/spf13/cobra"
)

var (
	articleMode   string
	articleMailTo []string
)

func init() {
	articleCmd.Flags().StringVar(&articleMode, "mode", "Normal Light", `One of "Normal Light", "Normal Dark", "Mobile Light", "Mobile Dark".`)
	articleCmd.Flags().StringSliceVar(&articleMailTo, "mail-to", nil, "E-mail the pdf to these addresses instead of keeping it.")
	rootCmd.AddCommand(articleCmd)
}

func newSink() (delivery.Sink, error) {
	if len(articleMailTo) == 0 {
		return delivery.FileSink{}, nil
	}
	secrets, err := configutil.LoadMailSecrets()
	if err != nil {
		return nil, err
	}
	return delivery.NewMailSink(cfg.Mail, secrets, articleMailTo, tel), nil
}

var articleCmd = &cobra.Command{
	Use:   "article <url> [--mode <mode>] [--mail-to <address>]",
	Short: "Downloads a lemonde.fr article as a PDF.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]
		profile, err := render.ParseMode(articleMode)
		if err != nil {
			return err
		}
		creds, err := configutil.LoadCredentials()
		if err != nil {
			return err
		}
		sink, err := newSink()
		if err != nil {
			return err
		}

		renderer := render.NewRenderer(
			cfg.Render.OutputDir,
			render.ChromeConverter{
				ChromePath: cfg.Render.ChromePath,
				Timeout:    configutil.Seconds(cfg.Fetch.RenderTimeoutSeconds),
			},
			tel,
		)
		client := lemonde.NewClient(cfg, creds, renderer, tel)

		slog.Info("downloading article", "url", url, "mode", profile.String())
		result, err := client.Download(cmd.Context(), url, profile, func(n retry.Notice) {
			fmt.Fprintf(os.Stderr, "Timeout. %s\n", n)
		})
		if err != nil {
			return err
		}

		where, err := sink.Deliver(cmd.Context(), delivery.Document{
			Path:      result.Path,
			SourceURL: url,
			Warning:   result.Warning,
		})
		if err != nil {
			return err
		}
		fmt.Println(where)
		if result.Warning != "" {
			fmt.Fprintln(os.Stderr, result.Warning)
		}
		return nil
	},
}
