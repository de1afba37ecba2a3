package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/plotset/plotembed/internal/embed"
	"github.com/plotset/plotembed/internal/settings"
	"github.com/plotset/plotembed/internal/testable"
)

// Result records the outcome of one job. A failed job has Err set and no
// output file.
type Result struct {
	Job      Job
	Output   string
	Bytes    int
	Duration time.Duration
	Err      error
}

// Runner executes manifest jobs concurrently.
type Runner struct {
	Assembler   *embed.Assembler
	FS          testable.FileSystem
	Concurrency int

	// Fallbacks for jobs whose manifest sets neither the job field nor a
	// manifest default.
	Watermark    bool
	ReferenceURL string
}

// Run executes every job and returns one Result per job, in manifest order.
// A failing job does not stop the others; only cancellation of ctx does.
func (r *Runner) Run(ctx context.Context, m *Manifest) ([]Result, error) {
	fsys := r.FS
	if fsys == nil {
		fsys = testable.DefaultFS
	}

	results := make([]Result, len(m.Jobs))
	g, gctx := errgroup.WithContext(ctx)
	if r.Concurrency > 0 {
		g.SetLimit(r.Concurrency)
	}
	for i, job := range m.Jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Job: job, Err: err}
				return nil
			}
			results[i] = r.runJob(gctx, fsys, m, job)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (r *Runner) runJob(ctx context.Context, fsys testable.FileSystem, m *Manifest, job Job) Result {
	start := time.Now()
	res := Result{Job: job, Output: m.Resolve(job.Output)}

	out, err := r.generate(ctx, fsys, m, job)
	if err == nil {
		err = writeOutput(fsys, res.Output, out)
	}
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		slog.Warn("batch job failed", "job", job.Name, "id", job.ID, "error", err)
		return res
	}
	res.Bytes = len(out)
	slog.Debug("batch job done", "job", job.Name, "id", job.ID, "output", res.Output, "duration", res.Duration)
	return res
}

func (r *Runner) generate(ctx context.Context, fsys testable.FileSystem, m *Manifest, job Job) (string, error) {
	read := func(p string) ([]byte, error) {
		if p == "" {
			return nil, nil
		}
		data, err := fsys.ReadFile(m.Resolve(p))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		return data, nil
	}

	tmpl, err := read(job.Template)
	if err != nil {
		return "", err
	}
	csv, err := read(job.Data)
	if err != nil {
		return "", err
	}
	req := embed.Request{
		Template:     string(tmpl),
		CSV:          string(csv),
		ReferenceURL: job.ReferenceURL,
	}
	if req.ReferenceURL == "" {
		req.ReferenceURL = r.ReferenceURL
	}
	req.ShowWatermark = r.Watermark
	if job.Watermark != nil {
		req.ShowWatermark = *job.Watermark
	}

	if job.Settings != "" {
		data, err := read(job.Settings)
		if err != nil {
			return "", err
		}
		flat, err := settings.FlattenJSON(data)
		if err != nil {
			return "", fmt.Errorf("%s: %w", job.Settings, err)
		}
		req.Config = flat
	} else if data, err := read(job.Config); err != nil {
		return "", err
	} else if data != nil {
		req.Config = json.RawMessage(data)
	}

	for _, in := range []struct {
		path string
		dst  *any
	}{
		{job.Binding, &req.Binding},
		{job.Format, &req.Format},
	} {
		data, err := read(in.path)
		if err != nil {
			return "", err
		}
		if data != nil {
			*in.dst = json.RawMessage(data)
		}
	}

	return r.Assembler.Generate(ctx, req)
}

func writeOutput(fsys testable.FileSystem, path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := fsys.WriteFile(path, []byte(content), 0o644); err != nil { //nolint:gosec // generated documents are meant to be served
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Failed returns how many results carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
