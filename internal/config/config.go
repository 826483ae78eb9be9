package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// RootDir anchors every relative path below; it is also the base of the
	// sourceXml value written into the bundle.
	RootDir string

	// Input
	SourceXML string
	MenuName  string

	// Outputs. ReportHTML and MarkdownDir are optional.
	OutputJSON   string
	AnalysisMD   string
	URLMappingMD string
	ReportHTML   string
	MarkdownDir  string

	// Routing locales for the URL mapping report
	Locales []string

	// Sanitizer fan-out
	WorkerCount int

	// Logging
	LogLevel  string
	LogFormat string
}

const defaultSourceXML = "data/source/export.xml"

func Load() Config {
	root := envOr("SITE_ROOT_DIR", ".")

	cfg := Config{
		RootDir: root,

		SourceXML: envOr("WP_XML_PATH", defaultSourceXML),
		MenuName:  os.Getenv("MENU_NAME"),

		OutputJSON:   envOr("OUTPUT_JSON", "src/data/site-content.generated.json"),
		AnalysisMD:   envOr("ANALYSIS_MD", "docs/xml-analysis.md"),
		URLMappingMD: envOr("URL_MAPPING_MD", "docs/url-mapping.md"),
		ReportHTML:   os.Getenv("REPORT_HTML"),
		MarkdownDir:  os.Getenv("MARKDOWN_DIR"),

		Locales: envList("SITE_LOCALES", []string{"ja", "ko"}),

		WorkerCount: envInt("WORKER_COUNT", 4),

		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFormat: envOr("LOG_FORMAT", "json"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}

	return cfg
}

func (c Config) Validate() error {
	if c.SourceXML == "" {
		return fmt.Errorf("WP_XML_PATH is required")
	}
	if c.OutputJSON == "" {
		return fmt.Errorf("OUTPUT_JSON is required")
	}
	if c.AnalysisMD == "" || c.URLMappingMD == "" {
		return fmt.Errorf("ANALYSIS_MD and URL_MAPPING_MD are required")
	}
	if len(c.Locales) == 0 {
		return fmt.Errorf("SITE_LOCALES needs at least one locale")
	}
	for _, loc := range c.Locales {
		if strings.Contains(loc, "/") {
			return fmt.Errorf("invalid locale %q", loc)
		}
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// Path resolves p against RootDir. Empty stays empty, absolute paths are
// returned as-is.
func (c Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.RootDir, p)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// envList splits a comma-separated value, dropping blanks.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
