package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgallion1/doctrans/internal/assemble"
	"github.com/dgallion1/doctrans/internal/parser"
)

// Worker processes a single document job.
type Worker struct {
	proc *Processor
	jobs *JobStore
	log  *slog.Logger
}

func NewWorker(proc *Processor, jobs *JobStore, log *slog.Logger) *Worker {
	return &Worker{proc: proc, jobs: jobs, log: log}
}

// Process runs the full translation pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename, "target", job.Target)
	proc := w.proc.For(job.Source, job.Target)

	if prev := w.findPrevious(job); prev != nil {
		snap := prev.Snapshot()
		if _, err := os.Stat(snap.Output); err == nil {
			log.Info("identical document already translated, reusing output", "previous_job", prev.ID)
			job.SetOutputPath(snap.Output)
			job.mu.Lock()
			errs := job.Progress.Errors
			job.Progress = snap.Progress
			job.Progress.Errors = errs
			job.mu.Unlock()
			job.SetStatus(StatusCompleted, "reused")
			return
		}
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	doc, err := parser.Open(job.InputPath, proc.cfg.ParserOptions)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	defer doc.Close()
	job.SetPages(0, doc.NumPages())
	log.Info("parsed document", "pages", doc.NumPages())

	// Phase 2: Translate
	job.SetStatus(StatusTranslating, "translating")
	asm := assemble.New(assemble.NewDocxSink(), proc.cfg.ImageWidthInches)
	sum, err := proc.TranslateDocument(ctx, doc, asm, job.SetPages)
	job.SetSummary(sum)
	if err != nil {
		log.Error("translation aborted", "error", err)
		job.AddError(fmt.Sprintf("translate: %s", err))
		job.SetStatus(StatusFailed, "translating")
		return
	}
	if sum.Failed > 0 {
		job.AddError(fmt.Sprintf("%d of %d sentences failed to translate", sum.Failed, sum.Sentences()))
	}

	// Phase 3: Write
	job.SetStatus(StatusWriting, "writing")
	if err := assemble.Save(asm, job.OutputPath); err != nil {
		log.Error("save failed", "path", job.OutputPath, "error", err)
		job.AddError(fmt.Sprintf("save: %s", err))
		job.SetStatus(StatusFailed, "writing")
		return
	}
	log.Info("output written", "path", job.OutputPath)

	switch {
	case sum.Failed > 0 && sum.Translated > 0:
		job.SetStatus(StatusPartial, "done")
	case sum.Failed > 0:
		job.SetStatus(StatusFailed, "translating")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

func (w *Worker) findPrevious(job *Job) *Job {
	if job.ContentHash == "" || w.jobs == nil {
		return nil
	}
	return w.jobs.FindCompleted(job.ContentHash, job.Source, job.Target, job.ID)
}
