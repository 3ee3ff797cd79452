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
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dotcommander/opener/internal/analysis"
	"github.com/dotcommander/opener/internal/config"
	"github.com/dotcommander/opener/internal/manuscript"
	"github.com/dotcommander/opener/internal/search"
	"github.com/dotcommander/opener/internal/storage"
)

const usage = `Usage: opener <command> [flags]

Commands:
  analyze [flags] <scenes.json>   rank opening candidates and save a report
  reports [flags]                 list saved reports
  search [flags] <scenes.json> [query]
                                  find words, "quoted phrases" or prefix* terms;
                                  -character alone lists a character's scenes

Example: opener analyze -naming descriptive draft-scenes.json
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "analyze":
		err = analyze(ctx, args[1:], stdout, stderr)
	case "reports":
		err = reports(ctx, args[1:], stdout, stderr)
	case "search":
		err = searchScenes(ctx, args[1:], stdout, stderr)
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n%s", args[0], usage)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case manuscript.IsMalformed(err), errors.Is(err, manuscript.ErrThresholdMisconfiguration):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}

type commonFlags struct {
	configPath string
	outputDir  string
	logLevel   string
	logFormat  string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/opener/config.yaml)")
	fs.StringVar(&c.outputDir, "out", "", "report directory (overrides paths.output_dir)")
	fs.StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&c.logFormat, "log-format", "", "text or json")
}

// load applies flag overrides on top of file and environment configuration.
func (c *commonFlags) load() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.outputDir != "" {
		cfg.Paths.OutputDir = c.outputDir
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Log.Format = c.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func analyze(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	naming := fs.String("naming", "run-id", "report file naming: run-id, timestamp or descriptive")
	title := fs.String("title", "", "manuscript title (defaults to the scene file's title)")
	toStdout := fs.Bool("stdout", false, "write the report to stdout instead of saving it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("%w: expected exactly one scene file", manuscript.ErrMalformedInput)
	}

	strategy, err := storage.ParseNamingStrategy(*naming)
	if err != nil {
		return err
	}
	cfg, err := common.load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log, stderr)
	slog.SetDefault(logger)

	scenePath, fileTitle, scenes, err := loadScenes(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if *title == "" {
		*title = fileTitle
	}

	logger.Info("Starting analysis",
		"scene_file", scenePath,
		"scene_count", len(scenes),
	)
	report, err := analysis.New(*cfg, analysis.WithLogger(logger)).Run(ctx, *title, scenes)
	if err != nil {
		return err
	}

	if *toStdout {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	out := storage.NewReportStore(storage.NewFileSystem(cfg.Paths.OutputDir), strategy)
	path, err := out.SaveReport(ctx, report.RunID, report.Title, report)
	if err != nil {
		return err
	}
	logger.Info("Report saved", "path", filepath.Join(cfg.Paths.OutputDir, path))

	summarize(stdout, report)
	return nil
}

// loadScenes reads a scene file through a store rooted at its directory.
func loadScenes(ctx context.Context, path string) (string, string, []manuscript.Scene, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", nil, fmt.Errorf("resolving scene file: %w", err)
	}
	in := storage.NewReportStore(storage.NewFileSystem(filepath.Dir(abs)), storage.NamingRunID)
	title, scenes, err := in.LoadScenes(ctx, filepath.Base(abs))
	if err != nil {
		return "", "", nil, err
	}
	return abs, title, scenes, nil
}

func summarize(w io.Writer, r *analysis.Report) {
	if r.Message != "" {
		fmt.Fprintln(w, r.Message)
		return
	}
	fmt.Fprintf(w, "%d candidate(s) from %d scene(s)\n", len(r.Assessments), r.SceneCount)
	for _, a := range r.Assessments {
		mark := " "
		if a.Candidate.ID == r.Recommended {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %-28s %-7s confidence %.2f  burden %4.1f%%  spoilers %d  gaps %d\n",
			mark, a.Candidate.ID, a.Decision.Verdict, a.Analysis.Confidence,
			a.Analysis.EditBurdenPercent, a.Analysis.SpoilerCount, len(a.Context.Gaps))
	}
}

func reports(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("reports", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := common.load()
	if err != nil {
		return err
	}

	paths, err := storage.NewReportStore(storage.NewFileSystem(cfg.Paths.OutputDir), storage.NamingRunID).Reports(ctx)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(stdout, filepath.Join(cfg.Paths.OutputDir, filepath.FromSlash(p)))
	}
	return nil
}

func searchScenes(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	character := fs.String("character", "", "only scenes naming this character")
	limit := fs.Int("limit", 50, "maximum hits (0 for all)")
	asJSON := fs.Bool("json", false, "print hits as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("%w: expected a scene file", manuscript.ErrMalformedInput)
	}
	query := strings.Join(fs.Args()[1:], " ")
	if strings.TrimSpace(query) == "" && *character == "" {
		return fmt.Errorf("%w: expected a query or -character", manuscript.ErrMalformedInput)
	}

	cfg, err := common.load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log, stderr)

	_, _, scenes, err := loadScenes(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if err := manuscript.ValidateScenes(scenes); err != nil {
		return err
	}

	ix := search.NewIndex(scenes)
	var hits []search.Hit
	if strings.TrimSpace(query) == "" {
		hits = ix.CharacterMentions(*character, *limit)
	} else {
		hits = ix.Search(query, search.Options{Limit: *limit, Character: *character})
	}
	logger.Debug("Search complete",
		"scene_count", ix.Len(),
		"hit_count", len(hits),
	)

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}
	for _, h := range hits {
		fmt.Fprintf(stdout, "%-12s %8d  %6.3f  %s\n", h.SceneID, h.Offset, h.Score, strings.Join(strings.Fields(h.Snippet), " "))
	}
	return nil
}
