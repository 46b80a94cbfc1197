package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/user/iron_analyzer_go/internal/analysis"
	"github.com/user/iron_analyzer_go/internal/config"
	"github.com/user/iron_analyzer_go/internal/exporter"
	"github.com/user/iron_analyzer_go/internal/infrastructure"
	"github.com/user/iron_analyzer_go/internal/parser"
	"github.com/user/iron_analyzer_go/internal/report"
)

// Process exit codes.
const (
	ExitOK       = 0
	ExitFile     = 1 // file, configuration or output failure
	ExitParse    = 2 // malformed readings or month token
	ExitCapacity = 3
	ExitEmpty    = 4
	ExitUsage    = 64
)

const monthPrompt = "Enter a month (e.g. SEP, OCT): "

// monthToken holds a month abbreviation such as SEP.
type monthToken struct {
	Month string `validate:"required,alpha,max=3"`
}

// App runs one analysis from the command line
type App struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
	runID  string
}

// NewApp creates a new App bound to the given streams
func NewApp(stdin io.Reader, stdout, stderr io.Writer) *App {
	return &App{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: slog.Default(),
		runID:  uuid.NewString(),
	}
}

type options struct {
	configPath string
	month      string
	pdfPath    string
	xlsxPath   string
	inputPath  string
}

func (a *App) parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("iron_analyzer", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.StringVar(&opts.month, "month", "", "month token for the monthly listing (prompted for when empty)")
	fs.StringVar(&opts.pdfPath, "pdf", "", "also write a PDF report to this path")
	fs.StringVar(&opts.xlsxPath, "xlsx", "", "also write an XLSX workbook to this path")
	fs.Usage = func() {
		fmt.Fprintln(a.stderr, "usage: iron_analyzer [flags] <readings-file>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("expected exactly one readings file")
	}
	opts.inputPath = fs.Arg(0)
	return opts, nil
}

func (a *App) sendStatus(message string, attrs ...any) {
	a.logger.Info(message, attrs...)
}

// Run executes the command and returns the process exit code.
func (a *App) Run(args []string) int {
	opts, err := a.parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return ExitFile
	}
	a.logger = infrastructure.NewLogger(cfg.Logging, a.stderr).With(slog.String("run_id", a.runID))

	if err := a.run(cfg, opts); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return ExitOK
}

func (a *App) run(cfg *config.Config, opts *options) error {
	mode, err := analysis.ParseMedianMode(cfg.Report.MedianMode)
	if err != nil {
		return err
	}

	a.sendStatus("Parsing", slog.String("path", opts.inputPath))
	loader := parser.NewLoader(cfg.Input.Delimiter, cfg.Input.Capacity, a.logger)
	readings, err := loader.LoadFile(opts.inputPath)
	if err != nil {
		return err
	}

	a.sendStatus("Analyzing", slog.Int("readings", readings.Len()), slog.String("median_mode", string(mode)))
	results, err := analysis.AnalyzeReadings(readings, mode)
	if err != nil {
		return err
	}
	months := analysis.MonthlyBreakdown(readings)

	if err := report.DisplayRecords(a.stdout, readings); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	fmt.Fprintln(a.stdout)
	if err := report.SummaryReport(a.stdout, results); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	month, err := a.readMonth(opts.month)
	if err != nil {
		return err
	}
	if month != "" {
		fmt.Fprintln(a.stdout)
		n, err := report.DisplayMonthly(a.stdout, readings, month)
		if err != nil {
			return fmt.Errorf("failed to write monthly listing: %w", err)
		}
		if n == 0 {
			fmt.Fprintf(a.stdout, "No readings for %s\n", month)
		}
		a.sendStatus("Monthly listing", slog.String("month", month), slog.Int("matches", n))
	}

	if opts.pdfPath != "" {
		if err := a.writePDF(cfg, opts, readings, results, months); err != nil {
			return err
		}
	}

	if opts.xlsxPath != "" {
		a.sendStatus("Generating workbook", slog.String("path", opts.xlsxPath))
		if err := exporter.NewWorkbookExporter(a.logger).ExportWorkbook(opts.xlsxPath, readings, results, months); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
	}

	return nil
}

// readMonth returns the validated month from the flag, or prompts for one.
// An empty answer or EOF skips the monthly listing.
func (a *App) readMonth(fromFlag string) (string, error) {
	month := strings.TrimSpace(fromFlag)
	if month == "" {
		fmt.Fprint(a.stdout, monthPrompt)
		line, err := bufio.NewReader(a.stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read month: %w", err)
		}
		month = strings.TrimSpace(line)
		if month == "" {
			fmt.Fprintln(a.stdout)
			return "", nil
		}
	}

	if err := validator.New().Struct(monthToken{Month: month}); err != nil {
		return "", &parser.ParseError{
			Line:   month,
			Field:  "month",
			Value:  month,
			Reason: "expected 1 to 3 letters, e.g. SEP",
			Err:    err,
		}
	}
	return month, nil
}

func (a *App) writePDF(cfg *config.Config, opts *options, readings *parser.Collection,
	results *analysis.AnalysisResults, months []analysis.MonthSummary) error {

	a.sendStatus("Generating plots...")
	size := report.PlotOptions{Width: cfg.Report.PlotWidth, Height: cfg.Report.PlotHeight}
	plotConfigs := []struct {
		Name  string
		Title string
		Build func(report.PlotOptions) ([]byte, error)
	}{
		{report.PlotReadingsLine, cfg.Report.Title, func(o report.PlotOptions) ([]byte, error) {
			return report.CreateReadingsPlot(readings, results, o)
		}},
		{report.PlotMonthlyBar, "Mean Blood Iron per Month", func(o report.PlotOptions) ([]byte, error) {
			return report.CreateMonthlyBarPlot(months, o)
		}},
		{report.PlotMonthDayHeatmap, "Blood Iron by Day of Month", func(o report.PlotOptions) ([]byte, error) {
			return report.CreateMonthDayHeatmap(readings, results, o)
		}},
	}

	plotImages := make(map[string][]byte)
	for _, pc := range plotConfigs {
		o := size
		o.Title = pc.Title
		img, err := pc.Build(o)
		if err != nil {
			// a missing plot leaves the rest of the report intact
			a.logger.Warn("Error generating plot", slog.String("plot", pc.Name), slog.String("error", err.Error()))
			continue
		}
		plotImages[pc.Name] = img
	}

	a.sendStatus("Generating PDF", slog.String("path", opts.pdfPath))
	meta := report.ReportMeta{Title: cfg.Report.Title, SourceFile: opts.inputPath, ReportID: a.runID}
	if err := report.BuildPDFReport(opts.pdfPath, readings, results, months, plotImages, meta); err != nil {
		return fmt.Errorf("failed to write PDF report: %w", err)
	}
	return nil
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	var (
		ioErr    *parser.IOError
		parseErr *parser.ParseError
		capErr   *parser.CapacityExceededError
		emptyErr *analysis.EmptyCollectionError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &capErr):
		return ExitCapacity
	case errors.As(err, &parseErr):
		return ExitParse
	case errors.As(err, &emptyErr):
		return ExitEmpty
	case errors.As(err, &ioErr):
		return ExitFile
	}
	return ExitFile
}
