package app

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/duckuio/ducku-cli/internal/core/config"
	"github.com/duckuio/ducku-cli/internal/core/errors"
	"github.com/duckuio/ducku-cli/internal/core/scan"
	"github.com/duckuio/ducku-cli/internal/engine/graph"
	"github.com/duckuio/ducku-cli/internal/engine/lang"
	"github.com/duckuio/ducku-cli/internal/engine/resolve"
	"github.com/duckuio/ducku-cli/internal/shared/observability"
)

// buildGraph extracts and resolves references for every snapshot file in
// parallel and folds them into the module graph. Per-file parse timeouts
// degrade to warnings; a cancelled parent context aborts the whole build so
// a run never reports over a partial graph.
func buildGraph(ctx context.Context, cfg *config.Config, snap *scan.Snapshot) (*graph.ModuleGraph, []scan.Warning, error) {
	ctx, span := observability.Tracer.Start(ctx, "graph.build")
	defer span.End()
	start := time.Now()
	defer func() {
		observability.AnalysisDuration.WithLabelValues("extract").Observe(time.Since(start).Seconds())
	}()

	resolver := resolve.New(snap, goModulePath(snap))
	g := graph.New()
	for _, f := range snap.Files {
		g.AddNode(f.Rel, f.Language)
	}

	workers := cfg.Scan.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var mu sync.Mutex
	var warnings []scan.Warning
	warn := func(w scan.Warning) {
		mu.Lock()
		warnings = append(warnings, w)
		mu.Unlock()
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, f := range snap.Files {
		file := f
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return errors.Wrap(err, errors.CodeCancelled, "analysis cancelled")
			}

			source, err := os.ReadFile(file.Path)
			if err != nil {
				warn(scan.Warning{Path: file.Rel, Kind: scan.WarnUnreadable, Detail: err.Error()})
				observability.SkippedFilesTotal.WithLabelValues(string(scan.WarnUnreadable)).Inc()
				return nil
			}

			fctx, cancel := context.WithTimeout(ctx, cfg.Scan.ParseTimeout)
			refs, partial, err := lang.ExtractFile(fctx, file.Language, file.Rel, source)
			cancel()
			if err != nil {
				if ctx.Err() != nil {
					return errors.Wrap(ctx.Err(), errors.CodeCancelled, "analysis cancelled")
				}
				warn(scan.Warning{Path: file.Rel, Kind: scan.WarnTimeout, Detail: err.Error()})
				slog.Warn("parse timed out", "path", file.Rel, "language", file.Language)
				return nil
			}
			if partial {
				warn(scan.Warning{Path: file.Rel, Kind: scan.WarnParse, Detail: "syntax errors, references partial"})
			}

			for _, ref := range refs {
				g.AddResolution(file.Rel, resolver.Resolve(file, ref))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	g.Publish()
	return g, warnings, nil
}
