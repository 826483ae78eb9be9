package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yjclinic/wxrsite/internal/enrich"
	"github.com/yjclinic/wxrsite/internal/sanitize"
	"github.com/yjclinic/wxrsite/internal/site"
	"github.com/yjclinic/wxrsite/internal/sitepath"
	"github.com/yjclinic/wxrsite/internal/wxr"
)

// Worker turns published pages and posts into content records. The
// cleaner and attachment index are shared read-only between goroutines.
type Worker struct {
	cleaner     *sanitize.Cleaner
	attachments *enrich.Attachments
	siteTitle   string
	timings     *Timings
	log         *slog.Logger
}

func NewWorker(cleaner *sanitize.Cleaner, attachments *enrich.Attachments, siteTitle string, timings *Timings, log *slog.Logger) *Worker {
	return &Worker{
		cleaner:     cleaner,
		attachments: attachments,
		siteTitle:   siteTitle,
		timings:     timings,
		log:         log,
	}
}

// ProcessAll builds one record per item with at most limit items in
// flight. The result is in input order.
func (w *Worker) ProcessAll(ctx context.Context, run *Run, items []wxr.Item, limit int) ([]site.Record, error) {
	out := make([]site.Record, len(items))
	run.SetRecordsTotal(len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))
	for i, it := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = w.Process(run, it)
			run.IncrRecordsCleaned()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("clean records: %w", err)
	}
	return out, nil
}

// Process builds the record for one page or post item. Problems with the
// item degrade the record; they never fail the run.
func (w *Worker) Process(run *Run, it wxr.Item) site.Record {
	p := sitepath.FromLink(it.Link, it.Slug)
	title := enrich.FormatTitle(it.Title, p, it.Slug, w.siteTitle)

	start := time.Now()
	cleaned, err := w.cleaner.Clean(it.Content, title)
	w.timings.Record(time.Since(start))
	if err != nil {
		w.log.Warn("content dropped", "item_id", it.ID, "error", err)
		run.AddWarning(fmt.Sprintf("item %s: content dropped: %s", it.ID, err))
		cleaned = sanitize.Result{}
	}

	slugDecoded := sitepath.DecodeURIComponent(it.Slug)
	hasContent := cleaned.Text != ""
	categories, tags := enrich.Labels(it)

	template := enrich.ChooseTemplate(enrich.Subject{
		Type:        it.PostType,
		Path:        p,
		SlugDecoded: slugDecoded,
		HasContent:  hasContent,
	})

	return site.Record{
		ID:            it.ID,
		Type:          it.PostType,
		Title:         title,
		Path:          p,
		PathDecoded:   sitepath.DecodeURI(p),
		Slug:          it.Slug,
		SlugDecoded:   slugDecoded,
		OriginalLink:  it.Link,
		PublishedAt:   it.PostDate,
		ModifiedAt:    it.ModifiedDate,
		Excerpt:       enrich.Describe(cleaned.Text, it.Excerpt),
		Categories:    categories,
		Tags:          tags,
		HTML:          cleaned.HTML,
		ImageCount:    cleaned.ImageCount,
		FeaturedImage: w.attachments.FeaturedImage(it.Meta),
		HasContent:    hasContent,
		Template:      template,
	}
}
