package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yjclinic/wxrsite/internal/config"
	"github.com/yjclinic/wxrsite/internal/pipeline"
)

// version is set at link time with -ldflags "-X main.version=...".
var version = "dev"

type options struct {
	envFile string

	root        string
	source      string
	output      string
	reportHTML  string
	markdownDir string
	menuName    string
	locales     string
	workers     int
	logLevel    string
	logFormat   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "wxrsite",
		Short: "Convert a WordPress WXR export into the site content bundle",
		Long: `wxrsite reads a WordPress eXtended RSS export and writes the sanitized
JSON content bundle plus the XML analysis and URL mapping reports.
Running it without a subcommand is the same as "wxrsite build".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, opts)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	f.StringVar(&opts.root, "root", "", "site root dir (SITE_ROOT_DIR)")
	f.StringVar(&opts.source, "source", "", "WXR export path (WP_XML_PATH)")
	f.StringVar(&opts.output, "output", "", "bundle output path (OUTPUT_JSON)")
	f.StringVar(&opts.reportHTML, "report-html", "", "also write an HTML report here (REPORT_HTML)")
	f.StringVar(&opts.markdownDir, "markdown-dir", "", "also export records as Markdown here (MARKDOWN_DIR)")
	f.StringVar(&opts.menuName, "menu", "", "use this WordPress navigation menu instead of inferring one (MENU_NAME)")
	f.StringVar(&opts.locales, "locales", "", "comma-separated route locales (SITE_LOCALES)")
	f.IntVar(&opts.workers, "workers", 0, "records cleaned in parallel (WORKER_COUNT)")
	f.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (LOG_LEVEL)")
	f.StringVar(&opts.logFormat, "log-format", "", "json or text (LOG_FORMAT)")

	root.AddCommand(
		&cobra.Command{
			Use:   "build",
			Short: "Build the content bundle and reports",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runBuild(cmd, opts)
			},
		},
		newCheckCmd(),
		newRoutesCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "wxrsite %s\n", version)
			},
		},
	)
	return root
}

func runBuild(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	log := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)

	orch := pipeline.NewOrchestrator(cfg, log)
	res, err := orch.Build(cmd.Context())
	if err != nil {
		log.Error("build failed", "error", err)
		return err
	}
	written, err := orch.Emit(res)
	if err != nil {
		log.Error("emit failed", "error", err)
		return err
	}
	for _, p := range written[:min(len(written), 3)] {
		fmt.Fprintf(cmd.OutOrStdout(), "Generated: %s\n", p)
	}
	if extra := len(written) - 3; extra > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Generated: %d more files\n", extra)
	}
	return nil
}

// loadConfig reads the dotenv file, then the environment, then applies the
// flags that were set explicitly.
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, fmt.Errorf("load %s: %w", opts.envFile, err)
	}
	cfg := config.Load()

	flags := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("root", &cfg.RootDir, opts.root)
	set("source", &cfg.SourceXML, opts.source)
	set("output", &cfg.OutputJSON, opts.output)
	set("report-html", &cfg.ReportHTML, opts.reportHTML)
	set("markdown-dir", &cfg.MarkdownDir, opts.markdownDir)
	set("menu", &cfg.MenuName, opts.menuName)
	set("log-level", &cfg.LogLevel, opts.logLevel)
	set("log-format", &cfg.LogFormat, opts.logFormat)
	if flags.Changed("locales") {
		cfg.Locales = splitList(opts.locales)
	}
	if flags.Changed("workers") && opts.workers > 0 {
		cfg.WorkerCount = opts.workers
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	hopts := &slog.HandlerOptions{Level: lvl}
	if format == "text" {
		return slog.New(slog.NewTextHandler(w, hopts))
	}
	return slog.New(slog.NewJSONHandler(w, hopts))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
