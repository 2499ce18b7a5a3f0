// Command snapshot loads the inspection sheet once and prints the dashboard
// summary or writes an export file.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"safetypulse/internal/config"
	apperrors "safetypulse/internal/errors"
	"safetypulse/internal/exporter"
	"safetypulse/internal/infrastructure"
	"safetypulse/internal/ingestion"
	"safetypulse/internal/services"
	"safetypulse/pkg/contracts"
	"safetypulse/pkg/contracts/domain"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %s\n", apperrors.UserMessage(err))
		stop()
		os.Exit(1)
	}
}

// options are the flags shared by every subcommand
type options struct {
	spreadsheet string
	sheet       string
	sourceURL   string
	timeout     time.Duration
	search      string
	sector      string
	shift       string
	logLevel    string
}

func (o *options) query() domain.RowQuery {
	return domain.RowQuery{
		Search:  o.search,
		Filters: domain.FieldFilters{Sector: o.sector, Shift: o.shift},
	}
}

func (o *options) apply(cfg *config.Config) {
	if o.spreadsheet != "" {
		cfg.Source.SpreadsheetID = o.spreadsheet
	}
	if o.sheet != "" {
		cfg.Source.SheetName = o.sheet
	}
	if o.sourceURL != "" {
		cfg.Source.BaseURL = o.sourceURL
	}
	if o.timeout > 0 {
		cfg.Source.Timeout = o.timeout
	}
}

// session is one loaded snapshot ready for queries
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	data   *services.DataService
}

func (o *options) load(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(o.apply)
	if err != nil {
		return nil, err
	}

	logger := infrastructure.NewLogger(cmd.ErrOrStderr(), o.logLevel)
	ctx := cmd.Context()

	ingester, err := ingestion.NewIngesterFromConfig(ctx, cfg.Source, nil, logger)
	if err != nil {
		return nil, err
	}

	snapshots := services.NewSnapshotService(ingester, services.RetryPolicyFrom(cfg.Refresh), nil, logger)
	if err := snapshots.Load(ctx); err != nil {
		return nil, err
	}

	return &session{
		cfg:    cfg,
		logger: logger,
		data:   services.NewDataService(snapshots, logger),
	}, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "snapshot",
		Short:         "Load the inspection sheet once and report on it",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.spreadsheet, "spreadsheet", "", "Spreadsheet identifier (overrides SAFETY_SOURCE_SPREADSHEET_ID)")
	flags.StringVar(&opts.sheet, "sheet", "", "Sheet name")
	flags.StringVar(&opts.sourceURL, "source-url", "", "Base URL of the visualization endpoint")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Source request timeout")
	flags.StringVar(&opts.search, "search", "", "Free-text search across row fields")
	flags.StringVar(&opts.sector, "sector", "", "Only rows of this sector")
	flags.StringVar(&opts.shift, "shift", "", "Only rows whose shift contains this text")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newSummaryCmd(opts), newExportCmd(opts), newVersionCmd())
	return cmd
}

func newSummaryCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.load(cmd)
			if err != nil {
				return err
			}

			summary, err := s.data.Summary(cmd.Context(), opts.query())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			return printSummary(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func newExportCmd(opts *options) *cobra.Command {
	var format, kind, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered rows or transactions to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := exporter.ParseFormat(format)
			if err != nil {
				return err
			}
			k, err := exporter.ParseKind(kind)
			if err != nil {
				return err
			}

			s, err := opts.load(cmd)
			if err != nil {
				return err
			}

			rows, err := s.data.Rows(cmd.Context(), opts.query())
			if err != nil {
				return err
			}

			path, err := exporter.New(s.cfg.GetPaths(), s.logger).ExportFile(cmd.Context(), out, f, k, rows)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(exporter.FormatCSV), "Export format (csv, xlsx)")
	cmd.Flags().StringVar(&kind, "kind", string(exporter.KindRows), "Table to export (rows, transactions)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: timestamped file in the exports directory)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
		},
	}
}

func printSummary(w io.Writer, s domain.DashboardSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Entradas\t%d\n", s.TotalEntries)
	fmt.Fprintf(tw, "Transações\t%d\n", s.TotalTransactions)
	fmt.Fprintf(tw, "Conformidade\t%.2f%%\t(sim %d, não %d)\n",
		s.Conformance.Rate, s.Conformance.AffirmativeCount, s.Conformance.NegativeCount)
	if !s.LastUpdated.IsZero() {
		fmt.Fprintf(tw, "Atualizado\t%s\n", s.LastUpdated.Format("02/01/2006 15:04:05"))
	}

	section := func(title string) { fmt.Fprintf(tw, "\n%s\n", title) }

	section("Setores")
	for _, b := range s.TopSectors {
		fmt.Fprintf(tw, "  %s\t%d\t%.2f%%\n", b.Label, b.Count, b.Percentage)
	}

	section("Domínios")
	for _, b := range s.Domains {
		fmt.Fprintf(tw, "  %s\t%d\t%.2f%%\n", b.Label, b.Count, b.Percentage)
	}

	section("Peso por turno")
	for _, t := range s.WeightByShift {
		fmt.Fprintf(tw, "  %s\t%.2f\n", t.Label, t.Total)
	}

	section("Peso médio por setor")
	for _, a := range s.AverageWeightBySector {
		fmt.Fprintf(tw, "  %s\t%.2f\t%.2f%%\n", a.Label, a.Average, a.PercentageOfMax)
	}

	return tw.Flush()
}
