package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yjclinic/wxrsite/internal/export"
	"github.com/yjclinic/wxrsite/internal/menu"
	"github.com/yjclinic/wxrsite/internal/report"
	"github.com/yjclinic/wxrsite/internal/site"
)

const reportTitle = "WXR migration report"

// Artifact is one rendered output file.
type Artifact struct {
	Path string
	Data []byte
}

// Render produces every output of a build in memory. The bundle is
// validated first; an invalid bundle renders nothing.
func (o *Orchestrator) Render(res *Result) ([]Artifact, error) {
	c := res.Content
	if err := site.Validate(c); err != nil {
		return nil, fmt.Errorf("invalid bundle: %w", err)
	}

	bundle, err := site.Marshal(c)
	if err != nil {
		return nil, err
	}
	analysis := report.Analysis(c, res.Run.Snapshot().ContentHash)
	mapping := report.URLMapping(c, o.cfg.Locales, menu.NewSorter())

	arts := []Artifact{
		{Path: o.cfg.Path(o.cfg.OutputJSON), Data: bundle},
		{Path: o.cfg.Path(o.cfg.AnalysisMD), Data: []byte(analysis)},
		{Path: o.cfg.Path(o.cfg.URLMappingMD), Data: []byte(mapping)},
	}

	if o.cfg.ReportHTML != "" {
		page, err := report.HTML(reportTitle, analysis+"\n"+mapping)
		if err != nil {
			return nil, err
		}
		arts = append(arts, Artifact{Path: o.cfg.Path(o.cfg.ReportHTML), Data: page})
	}

	if o.cfg.MarkdownDir != "" {
		files, err := export.Render(c)
		if err != nil {
			return nil, fmt.Errorf("markdown export: %w", err)
		}
		dir := o.cfg.Path(o.cfg.MarkdownDir)
		for _, f := range files {
			arts = append(arts, Artifact{Path: filepath.Join(dir, filepath.FromSlash(f.Name)), Data: f.Data})
		}
	}
	return arts, nil
}

// Emit renders the build and writes every artifact. Files are first staged
// next to their destination and only renamed into place once all of them
// were written, so a render or write failure leaves no output behind.
func (o *Orchestrator) Emit(res *Result) ([]string, error) {
	run := res.Run
	log := o.log.With("run_id", run.ID)

	run.SetStatus(StatusEmitting, "rendering")
	arts, err := o.Render(res)
	if err != nil {
		run.SetStatus(StatusFailed, "rendering")
		return nil, err
	}

	run.SetStatus(StatusEmitting, "writing")
	staged := make([]string, 0, len(arts))
	cleanup := func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}
	for _, a := range arts {
		tmp, err := stage(a)
		if err != nil {
			cleanup()
			run.SetStatus(StatusFailed, "writing")
			return nil, err
		}
		staged = append(staged, tmp)
	}

	written := make([]string, 0, len(arts))
	for i, a := range arts {
		if err := os.Rename(staged[i], a.Path); err != nil {
			cleanup()
			run.SetStatus(StatusFailed, "writing")
			return written, fmt.Errorf("install %s: %w", a.Path, err)
		}
		written = append(written, a.Path)
		log.Debug("wrote artifact", "path", a.Path, "bytes", len(a.Data))
	}

	run.SetStatus(StatusCompleted, "done")
	snap := run.Snapshot()
	log.Info("build complete",
		"files", len(written),
		"pages", res.Content.Stats.PagesPublish,
		"posts", res.Content.Stats.PostsPublish,
		"warnings", len(snap.Progress.Warnings),
		"elapsed", snap.Elapsed,
	)
	return written, nil
}

// stage writes a temp file beside the artifact's destination and returns
// its name.
func stage(a Artifact) (string, error) {
	dir := filepath.Dir(a.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(a.Path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("stage %s: %w", a.Path, err)
	}
	_, werr := f.Write(a.Data)
	serr := f.Sync()
	cerr := f.Close()
	if err := errors.Join(werr, serr, cerr); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("stage %s: %w", a.Path, err)
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("stage %s: %w", a.Path, err)
	}
	return f.Name(), nil
}
