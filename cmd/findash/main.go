package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"findash/internal/cli"
	"findash/internal/config"
	"findash/internal/core"
	applog "findash/internal/log"
	"findash/internal/services"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "summary":
		cfg, logger := cli.Bootstrap()
		os.Exit(runSummary(cfg, logger, os.Args[2:]))
	case "report":
		cfg, logger := cli.Bootstrap()
		os.Exit(runReport(cfg, logger, os.Args[2:]))
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("findash - personal finance dashboard")
	fmt.Println("\nUsage:")
	fmt.Println("  findash <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  summary   Print the dashboard for a transactions CSV")
	fmt.Println("  report    Write the plain-text financial summary report")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'findash <command> -h' for more information on a command.")
}

func runSummary(cfg *config.Config, logger *applog.Logger, args []string) int {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	txPath := fs.String("transactions", "", "Path to the transactions CSV")
	acctPath := fs.String("accounts", "", "Path to the accounts CSV (optional)")
	format := fs.String("format", cfg.OutputFormat, "Output format: table or json")
	fs.Parse(args)

	if *format != "table" && *format != "json" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", *format)
		return 2
	}

	d, code := build(cfg, logger, *txPath, *acctPath)
	if d == nil {
		return code
	}

	logger.Debug("Rendering dashboard", applog.FieldOperation, applog.OpRender, applog.FieldFormat, *format)

	var err error
	if *format == "json" {
		err = cli.RenderJSON(os.Stdout, d, cfg.CurrencySymbol)
	} else {
		err = cli.NewDashboardView(cfg.CurrencySymbol).Render(os.Stdout, d)
	}
	if err != nil {
		logger.Error("Failed to render dashboard", applog.FieldOperation, applog.OpRender, applog.FieldError, err)
		return 1
	}
	return 0
}

func runReport(cfg *config.Config, logger *applog.Logger, args []string) int {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	txPath := fs.String("transactions", "", "Path to the transactions CSV")
	acctPath := fs.String("accounts", "", "Path to the accounts CSV (optional)")
	out := fs.String("out", cfg.ReportPath, "Report output path, - for stdout")
	fs.Parse(args)

	d, code := build(cfg, logger, *txPath, *acctPath)
	if d == nil {
		return code
	}

	ctx := context.Background()
	svc := newService(cfg, logger)
	if *out == "-" {
		if err := svc.WriteReport(ctx, os.Stdout, d, time.Now()); err != nil {
			return 1
		}
		return 0
	}

	if dir := filepath.Dir(*out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("Failed to create report directory", applog.FieldFile, *out, applog.FieldError, err)
			return 1
		}
	}
	f, err := os.Create(*out)
	if err != nil {
		logger.Error("Failed to create report file", applog.FieldFile, *out, applog.FieldError, err)
		return 1
	}
	if err := svc.WriteReport(ctx, f, d, time.Now()); err != nil {
		f.Close()
		return 1
	}
	if err := f.Close(); err != nil {
		logger.Error("Failed to close report file", applog.FieldFile, *out, applog.FieldError, err)
		return 1
	}

	fmt.Printf("Report written to %s\n", *out)
	return 0
}

func newService(cfg *config.Config, logger *applog.Logger) *services.DashboardService {
	dcfg := services.DefaultDashboardConfig()
	if len(cfg.DateLayouts) > 0 {
		dcfg.DateLayouts = cfg.DateLayouts
	}
	dcfg.CurrencySymbol = cfg.CurrencySymbol
	return services.NewDashboardService(logger, dcfg)
}

// build reads the inputs and runs one dashboard pass. It returns a nil
// dashboard and the exit code on failure.
func build(cfg *config.Config, logger *applog.Logger, txPath, acctPath string) (*services.Dashboard, int) {
	if txPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -transactions is required")
		return nil, 2
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	in, err := cli.ReadInputs(ctx, txPath, acctPath)
	if err != nil {
		logger.Error("Failed to read input files", applog.FieldOperation, applog.OpLoad, applog.FieldError, err)
		return nil, 1
	}

	d, err := newService(cfg, logger).Build(ctx, in.DashboardInput())
	if err != nil {
		if errors.Is(err, core.ErrParse) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return nil, 1
	}
	return d, 0
}
