package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"barman/lib/configutil"
	"barman/lib/delivery"
	"barman/lib/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool

	cfg configutil.Config
	tel telemetry.API = telemetry.SlogAPI{}
	otl telemetry.Telemetry
)

var rootCmd = &cobra.Command{
	Use:           "barman",
	Short:         "barman fetches game release calendars and turns news articles into PDFs.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(debug)

		var err error
		cfg, err = configutil.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		otl, err = telemetry.SetupFromEnv(cmd.Context(), "barman")
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("telemetry.json5 not found, exporting nothing")
			return nil
		}
		if err != nil {
			slog.Warn("failed to setup telemetry", "err", err)
			return nil
		}
		telemetry.InstrumentPerfStats(cmd.Context(), 15*time.Second, tel)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := otl.Shutdown(ctx)
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a barman.json5 config, searched from the cwd upwards by default.")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "err", err)
		fmt.Fprintln(os.Stderr, delivery.UserMessage(err))
		os.Exit(1)
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
