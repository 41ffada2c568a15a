// Package pipeline drives the batch run: scan the input directory,
// extract and classify each PDF, and write one outline JSON per input.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/pdfoutline/internal/classify"
	"github.com/dgallion1/pdfoutline/internal/config"
	"github.com/dgallion1/pdfoutline/internal/fontstats"
	"github.com/dgallion1/pdfoutline/internal/outline"
	"github.com/dgallion1/pdfoutline/internal/parser"
)

// Runner executes one batch pass over the input directory.
type Runner struct {
	cfg        config.Config
	extractor  parser.Extractor
	classifier classify.Classifier
	log        *slog.Logger
}

func NewRunner(cfg config.Config, ex parser.Extractor, cls classify.Classifier, log *slog.Logger) *Runner {
	return &Runner{cfg: cfg, extractor: ex, classifier: cls, log: log}
}

// Summary reports what a batch run did.
type Summary struct {
	Processed int
	Failed    int
	Elapsed   time.Duration
}

// Run processes every *.pdf in the input directory in name order. A
// file that cannot be processed is logged and skipped; the run itself
// only fails when the input directory is unusable or the context is
// canceled.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	start := time.Now()

	entries, err := os.ReadDir(r.cfg.InputDir)
	if err != nil {
		return Summary{}, fmt.Errorf("read input dir: %w", err)
	}
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create output dir: %w", err)
	}

	var sum Summary
	found := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			sum.Elapsed = time.Since(start)
			return sum, err
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		found++

		log := r.log.With("file", entry.Name())
		if err := r.processFile(log, entry.Name()); err != nil {
			sum.Failed++
			var ue *parser.UnreadableError
			if errors.As(err, &ue) {
				log.Warn("skipping unreadable pdf", "error", err)
			} else {
				log.Error("processing failed", "error", err)
			}
			continue
		}
		sum.Processed++
	}

	if found == 0 {
		r.log.Warn("no pdf files found", "dir", r.cfg.InputDir)
	}

	sum.Elapsed = time.Since(start)
	r.log.Info("processing complete", "processed", sum.Processed, "failed", sum.Failed)
	return sum, nil
}

// processFile runs the full extraction pipeline for one input file. A
// panic from a malformed document is converted into an error so the
// batch keeps going.
func (r *Runner) processFile(log *slog.Logger, name string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	// Phase 1: Extract spans
	doc, err := r.extractor.Extract(filepath.Join(r.cfg.InputDir, name))
	if err != nil {
		return err
	}
	log.Debug("extracted spans", "pages", doc.PageCount, "spans", len(doc.Spans))

	// Phase 2: Font statistics
	profile := fontstats.Build(doc.Spans)
	log.Debug("font profile built", "body_size", profile.BodySize, "heading_sizes", profile.HeadingSizes)

	// Phase 3: Classify headings
	labeled := r.classifier.Classify(doc.Spans, profile)

	// Phase 4: Assemble and write
	o := outline.Assemble(labeled, outline.Options{
		TitleMaxRunes: r.cfg.TitleMaxRunes,
		MaxEntries:    r.cfg.MaxEntries,
	})
	data, err := o.Encode()
	if err != nil {
		return err
	}
	if err := outline.ValidateJSON(data); err != nil {
		return fmt.Errorf("validate output: %w", err)
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))
	if err := writeAtomic(filepath.Join(r.cfg.OutputDir, base+".json"), data); err != nil {
		return err
	}
	if r.cfg.EmitMarkdown {
		if err := writeAtomic(filepath.Join(r.cfg.OutputDir, base+".md"), []byte(o.MarkdownTOC())); err != nil {
			return err
		}
	}

	log.Info("outline written", "pages", doc.PageCount, "entries", len(o.Entries), "has_title", o.Title != "")
	return nil
}

// writeAtomic writes data to path via a temp file in the same
// directory plus a rename, so a crash mid-write never leaves a partial
// output behind.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pdfoutline-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
