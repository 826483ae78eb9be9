// Package pipeline runs a full WXR to site-content build: read, parse,
// clean, classify, build the menu, then emit every artifact at once.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/yjclinic/wxrsite/internal/config"
	"github.com/yjclinic/wxrsite/internal/enrich"
	"github.com/yjclinic/wxrsite/internal/menu"
	"github.com/yjclinic/wxrsite/internal/pathstore"
	"github.com/yjclinic/wxrsite/internal/sanitize"
	"github.com/yjclinic/wxrsite/internal/site"
	"github.com/yjclinic/wxrsite/internal/sitepath"
	"github.com/yjclinic/wxrsite/internal/wxr"
)

var (
	// ErrSourceNotFound means the WXR file does not exist.
	ErrSourceNotFound = errors.New("source xml not found")
	// ErrInvalidSiteLink means the channel link is not an absolute URL, so
	// there is no origin to rewrite links against.
	ErrInvalidSiteLink = errors.New("site link is not an absolute url")
)

// generatedAtLayout matches JavaScript's Date.prototype.toISOString.
const generatedAtLayout = "2006-01-02T15:04:05.000Z"

// Orchestrator builds and emits site-content bundles.
type Orchestrator struct {
	cfg config.Config
	log *slog.Logger
	now func() time.Time
}

// NewOrchestrator creates a pipeline for the given configuration.
func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{cfg: cfg, log: log, now: time.Now}
}

// Result is the in-memory outcome of Build.
type Result struct {
	Content *site.Content
	Run     *Run
	Timings TimingSnapshot
}

// Build runs every stage up to, but not including, emission. It returns an
// error only for the fatal conditions: missing source, missing channel,
// invalid site link, or cancellation.
func (o *Orchestrator) Build(ctx context.Context) (*Result, error) {
	src := o.cfg.Path(o.cfg.SourceXML)
	run := NewRun(src)
	log := o.log.With("run_id", run.ID)

	res, err := o.build(ctx, run, log)
	if err != nil {
		run.SetStatus(StatusFailed, run.Snapshot().Phase)
		return nil, err
	}
	return res, nil
}

func (o *Orchestrator) build(ctx context.Context, run *Run, log *slog.Logger) (*Result, error) {
	// Phase 1: Read
	run.SetStatus(StatusReading, "reading")
	data, err := os.ReadFile(run.Source)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, run.Source)
	}
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	run.SetContentHash(ContentHashHex(data))
	log.Info("read source", "path", run.Source, "bytes", len(data))

	// Phase 2: Parse
	run.SetStatus(StatusParsing, "parsing")
	export, err := wxr.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", run.Source, err)
	}
	origin, err := sitepath.Origin(export.Site.Link)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidSiteLink, export.Site.Link, err)
	}
	log.Info("parsed export", "items", len(export.Items), "origin", origin)

	attachments := enrich.IndexAttachments(export.Items, export.Site.Title)
	cleaner, err := sanitize.New(origin, attachments.AltByURL())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSiteLink, err)
	}

	// Phase 3: Clean and classify
	run.SetStatus(StatusCleaning, "cleaning")
	var published []wxr.Item
	published = append(published, export.Filter(wxr.TypePage, wxr.StatusPublish)...)
	published = append(published, export.Filter(wxr.TypePost, wxr.StatusPublish)...)

	timings := NewTimings()
	worker := NewWorker(cleaner, attachments, export.Site.Title, timings, log)
	records, err := worker.ProcessAll(ctx, run, published, o.cfg.WorkerCount)
	if err != nil {
		return nil, err
	}
	snap := timings.Snapshot()
	log.Info("cleaned records", "records", snap.Count, "p50", snap.P50, "p95", snap.P95, "max", snap.Max)

	store := pathstore.New()
	pages := []site.Record{}
	posts := []site.Record{}
	for _, rec := range records {
		if !store.Put(rec) {
			log.Warn("duplicate path dropped", "item_id", rec.ID, "path", rec.Path)
			run.AddWarning(fmt.Sprintf("item %s: duplicate path %s dropped", rec.ID, rec.Path))
			continue
		}
		if rec.Type == site.TypePost {
			posts = append(posts, rec)
		} else {
			pages = append(pages, rec)
		}
	}

	sorter := menu.NewSorter()
	sorter.ByPath(pages)
	sorter.ByPath(posts)

	// Phase 4: Menu and placeholders
	run.SetStatus(StatusMenu, "menu")
	menuItems, source := o.buildMenu(export, pages, origin, sorter, run, log)
	placeholders := menu.SynthesizePlaceholders(menuItems, store)
	if len(placeholders) > 0 {
		pages = append(pages, placeholders...)
		sorter.ByPath(pages)
		log.Info("synthesized placeholders", "count", len(placeholders))
	}
	menuItems = menu.Resolve(menuItems, store)

	c := site.New()
	c.GeneratedAt = o.now().UTC().Format(generatedAtLayout)
	c.SourceXML = o.relativeSource(run.Source)
	c.Site = export.Site
	c.Stats = site.Stats{
		ItemsTotal:   len(export.Items),
		PagesPublish: len(pages),
		PostsPublish: len(posts),
		Attachments:  attachments.Len(),
	}
	c.Menu.InferredFrom = source
	c.Menu.Items = menuItems
	c.Pages = pages
	c.Posts = posts
	c.Attachments = attachments.Records()

	return &Result{Content: c, Run: run, Timings: snap}, nil
}

// buildMenu infers the menu from the published pages. A WordPress
// navigation menu is used instead only when MenuName asks for one; if it
// cannot be found or resolves to nothing the pages are used after all.
func (o *Orchestrator) buildMenu(export *wxr.Export, pages []site.Record, origin string, sorter *menu.Sorter, run *Run, log *slog.Logger) ([]site.MenuItem, string) {
	if o.cfg.MenuName != "" {
		items, source, ok := menu.FromNavItems(export.Items, menu.NavOptions{
			Name:      o.cfg.MenuName,
			Origin:    origin,
			SiteTitle: export.Site.Title,
		})
		if ok {
			log.Info("menu from nav_menu_item", "menu", o.cfg.MenuName, "items", len(items))
			return items, source
		}
		log.Warn("menu not found, inferring from pages", "menu", o.cfg.MenuName)
		run.AddWarning(fmt.Sprintf("menu %q not found", o.cfg.MenuName))
	}
	items := menu.Infer(pages, sorter)
	log.Info("menu inferred from pages", "items", len(items))
	return items, menu.FromPages
}

// relativeSource is the source path relative to the root dir, with forward
// slashes. Paths that cannot be made relative are kept as given.
func (o *Orchestrator) relativeSource(src string) string {
	root, err := filepath.Abs(o.cfg.RootDir)
	if err != nil {
		return filepath.ToSlash(src)
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return filepath.ToSlash(src)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return filepath.ToSlash(src)
	}
	return filepath.ToSlash(rel)
}
