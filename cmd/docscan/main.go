// Command docscan extracts structured fields from the text of Vietnamese invoices and
// bank payment advices, and manages the keywords learned from user corrections.
//
//	docscan extract -type Invoice|BankAdvice [-format json|csv|text] file...
//	docscan learn keyword...
//	docscan keywords
//	docscan forget keyword...
//	docscan serve
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/FACorreiaa/docscan/internal/domain/extraction"
	"github.com/FACorreiaa/docscan/internal/domain/extraction/export"
	"github.com/FACorreiaa/docscan/internal/domain/extraction/service"
	"github.com/FACorreiaa/docscan/pkg/config"
	"github.com/FACorreiaa/docscan/pkg/money"
	"github.com/FACorreiaa/docscan/pkg/server"
	"github.com/FACorreiaa/docscan/pkg/textsource"
)

var errUsage = errors.New("usage: docscan <extract|learn|keywords|forget|serve> [flags] [args]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "docscan:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg.Log, stderr)

	deps, err := InitDependencies(cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Cleanup()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "extract":
		return runExtract(ctx, deps, rest, stdin, stdout, stderr)
	case "learn":
		return runLearn(ctx, deps, rest, stdout)
	case "keywords":
		return runKeywords(ctx, deps, stdout)
	case "forget":
		return runForget(ctx, deps, rest, stdout)
	case "serve":
		return server.Run(ctx, server.Config{
			Addr:               cfg.Server.Addr(),
			RateLimitPerSecond: cfg.Server.RateLimitPerSecond,
			RateLimitBurst:     cfg.Server.RateLimitBurst,
			CORSOrigins:        cfg.Server.CORSOrigins,
		}, deps.Routes(), logger)
	default:
		return fmt.Errorf("unknown command %q\n%w", cmd, errUsage)
	}
}

// newLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// fileResult is one extracted input as printed by extract -format json.
type fileResult struct {
	Source string `json:"source"`
	*service.Extraction
	SourceWarnings []string `json:"source_warnings,omitempty"`
}

func runExtract(ctx context.Context, deps *Dependencies, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	fs.SetOutput(stderr)
	typeFlag := fs.String("type", "", "document type: Invoice or BankAdvice (required)")
	format := fs.String("format", "json", "output format: json, csv or text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	docType, err := extraction.ParseDocumentType(*typeFlag)
	if err != nil {
		return fmt.Errorf("-type %q: %w", *typeFlag, err)
	}
	if fs.NArg() == 0 {
		return errors.New("extract: no input files (use - for stdin)")
	}
	switch *format {
	case "json", "csv", "text":
	default:
		return fmt.Errorf("extract: unknown format %q", *format)
	}

	results := make([]fileResult, 0, fs.NArg())
	for _, path := range fs.Args() {
		doc, err := readInput(path, stdin)
		if err != nil {
			return err
		}
		for _, w := range doc.Warnings {
			deps.Logger.Warn("input warning", slog.String("source", path), slog.String("warning", w))
		}

		e, err := deps.ExtractionService.Extract(ctx, docType, doc.Text)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		results = append(results, fileResult{Source: path, Extraction: e, SourceWarnings: doc.Warnings})
	}

	switch *format {
	case "csv":
		sourced := make([]export.Sourced, len(results))
		for i, r := range results {
			sourced[i] = export.Sourced{Source: r.Source, Extraction: r.Extraction}
		}
		return export.WriteCSV(stdout, sourced)
	case "text":
		return writeSummary(stdout, results)
	default:
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
}

func readInput(path string, stdin io.Reader) (*textsource.Document, error) {
	if path != "-" {
		return textsource.ReadFile(path)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	doc, err := textsource.ReadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("stdin: %w", err)
	}
	doc.Name = "stdin"
	return doc, nil
}

func writeSummary(w io.Writer, results []fileResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tTYPE\tDATE\tTOTAL\tPRE-TAX\tTAX\tWARNING")
	for _, r := range results {
		doc := r.Document
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Source, doc.Type, doc.Date,
			money.FormatAmount(doc.TotalAmount), money.FormatAmount(doc.PreTaxAmount), money.FormatAmount(doc.TaxAmount),
			r.Warning)
	}
	return tw.Flush()
}

func runLearn(ctx context.Context, deps *Dependencies, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New("learn: no keywords given")
	}
	for _, arg := range args {
		kw, err := deps.ExtractionService.Learn(ctx, arg)
		if err != nil {
			return fmt.Errorf("%q: %w", arg, err)
		}
		fmt.Fprintf(stdout, "learned %q (weight %d)\n", kw.Keyword, kw.Weight)
	}
	return nil
}

func runKeywords(ctx context.Context, deps *Dependencies, stdout io.Writer) error {
	kws, err := deps.ExtractionService.Keywords(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEYWORD\tWEIGHT\tUPDATED")
	for _, kw := range kws {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", kw.Keyword, kw.Weight, kw.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func runForget(ctx context.Context, deps *Dependencies, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New("forget: no keywords given")
	}
	for _, arg := range args {
		if err := deps.ExtractionService.Forget(ctx, arg); err != nil {
			return fmt.Errorf("%q: %w", arg, err)
		}
		fmt.Fprintf(stdout, "forgot %q\n", arg)
	}
	return nil
}
