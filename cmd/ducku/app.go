package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/duckuio/ducku-cli/internal/core/app"
	"github.com/duckuio/ducku-cli/internal/core/ports"
	"github.com/duckuio/ducku-cli/internal/core/watcher"
	"github.com/duckuio/ducku-cli/internal/data/history"
	"github.com/duckuio/ducku-cli/internal/shared/observability"
	"github.com/duckuio/ducku-cli/internal/shared/util"
	"github.com/duckuio/ducku-cli/internal/shared/version"
	"github.com/duckuio/ducku-cli/internal/ui/report"
)

// runner wires the use case, renderers, history sink, and watch loop for a
// fixed set of projects.
type runner struct {
	projects []*ports.Project
	useCase  ports.UseCase
	history  ports.HistorySink
	shutdown func(context.Context) error
	plain    bool
}

func newRunner(ctx context.Context, projects []*ports.Project) (*runner, error) {
	r := &runner{
		projects: projects,
		useCase:  app.NewUnusedModules(),
	}

	// Observability wiring follows the first project's tool config; in
	// multi-project mode the children share one process.
	cfg := projects[0].Config
	if cfg.Observability.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Observability.MetricsAddr, mux); err != nil {
				slog.Error("metrics endpoint failed", "error", err)
			}
		}()
	}
	shutdown, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint, version.Version)
	if err != nil {
		return nil, err
	}
	r.shutdown = shutdown

	if cfg.DB.Enabled {
		store, err := history.Open(cfg.DB.Path)
		if err != nil {
			return nil, err
		}
		r.history = store
	}
	return r, nil
}

func (r *runner) Close() {
	if r.history != nil {
		_ = r.history.Close()
	}
	if r.shutdown != nil {
		_ = r.shutdown(context.Background())
	}
}

// Run executes one pass over every project, emits the reports, and enters
// watch or UI mode when requested. The returned code is the process exit
// code.
func (r *runner) Run(ctx context.Context, watchMode, uiMode, plain bool) (int, error) {
	r.plain = plain
	results, err := r.runOnce(ctx)
	if err != nil {
		return exitError, err
	}

	if uiMode {
		if err := browseFindings(results); err != nil {
			return exitError, err
		}
	}

	if watchMode {
		if len(r.projects) != 1 {
			slog.Warn("watch mode supports a single project, running once")
		} else if err := r.watchLoop(ctx); err != nil {
			return exitError, err
		}
	}

	for _, result := range results {
		if len(result.Findings) > 0 {
			return exitFindings, nil
		}
	}
	return exitClean, nil
}

func (r *runner) runOnce(ctx context.Context) ([]*ports.Result, error) {
	results := make([]*ports.Result, 0, len(r.projects))
	for _, project := range r.projects {
		result, err := r.useCase.Run(ctx, project)
		if err != nil {
			return nil, err
		}
		if err := r.emit(ctx, project, result); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (r *runner) emit(ctx context.Context, project *ports.Project, result *ports.Result) error {
	text, err := report.NewText(r.plain).Render(result)
	if err != nil {
		return err
	}
	fmt.Print(string(text))

	cfg := project.Config
	if cfg.Report.TSV != "" {
		if err := r.writeReport(report.NewTSV(), result, project.Root, cfg.Report.TSV); err != nil {
			return err
		}
	}
	if cfg.Report.SARIF != "" {
		if err := r.writeReport(report.NewSARIF(), result, project.Root, cfg.Report.SARIF); err != nil {
			return err
		}
	}

	if r.history != nil {
		if err := r.history.SaveRun(ctx, result); err != nil {
			slog.Warn("history write failed", "error", err)
		}
	}
	return nil
}

func (r *runner) writeReport(renderer ports.Renderer, result *ports.Result, root, rel string) error {
	data, err := renderer.Render(result)
	if err != nil {
		return err
	}
	path := rel
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, rel)
	}
	return util.WriteFileWithDirs(path, data, 0o644)
}

// watchLoop reruns the analysis on debounced change batches. The rate limiter
// caps rescans under editor churn; changes arriving while throttled are
// picked up by the next allowed rescan since every rescan walks the full
// tree.
func (r *runner) watchLoop(ctx context.Context) error {
	project := r.projects[0]
	cfg := project.Config

	changes := make(chan []string, 16)
	w, err := watcher.New(cfg, func(paths []string) { changes <- paths })
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Watch(project.Root); err != nil {
		return err
	}

	limiter := util.NewLimiterPerMinute(cfg.Watch.RescansPerMinute)
	slog.Info("watching for changes", "root", project.Root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changes:
			if !limiter.Allow() {
				slog.Debug("rescan throttled", "changes", len(paths))
				continue
			}
			observability.RescansTotal.Inc()
			slog.Info("change detected, rescanning", "changes", len(paths))

			result, err := r.useCase.Run(ctx, project)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				slog.Error("rescan failed", "error", err)
				continue
			}
			if err := r.emit(ctx, project, result); err != nil {
				slog.Error("report failed", "error", err)
			}
		}
	}
}
