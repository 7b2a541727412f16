package app

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/duckuio/ducku-cli/internal/core/config"
	"github.com/duckuio/ducku-cli/internal/core/ports"
	"github.com/duckuio/ducku-cli/internal/core/scan"
	"github.com/duckuio/ducku-cli/internal/engine/entry"
	"github.com/duckuio/ducku-cli/internal/engine/resolve"
	"github.com/duckuio/ducku-cli/internal/shared/observability"
)

// UnusedModules finds source files no entry point can reach through the
// import graph.
type UnusedModules struct{}

func NewUnusedModules() *UnusedModules { return &UnusedModules{} }

func (u *UnusedModules) Name() string { return config.UseCaseUnusedModules }

func (u *UnusedModules) Run(ctx context.Context, project *ports.Project) (*ports.Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "usecase.unused_modules")
	defer span.End()
	start := time.Now()

	result := &ports.Result{
		Project: project.Name,
		Root:    project.Root,
		UseCase: u.Name(),
	}
	if project.Project.UseCaseDisabled(u.Name()) {
		slog.Info("use case disabled, skipping", "project", project.Name, "use_case", u.Name())
		result.Skipped = true
		return result, nil
	}

	snap, err := u.scanPhase(ctx, project)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, snap.Warnings...)
	result.Stats.FilesScanned = len(snap.Files)

	g, warnings, err := buildGraph(ctx, project.Config, snap)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, warnings...)
	// Extraction warnings arrive in worker completion order; re-sort the
	// merged list so reports stay byte-identical across runs.
	sort.Slice(result.Warnings, func(i, j int) bool {
		if result.Warnings[i].Path != result.Warnings[j].Path {
			return result.Warnings[i].Path < result.Warnings[j].Path
		}
		return result.Warnings[i].Kind < result.Warnings[j].Kind
	})

	detectStart := time.Now()
	resolver := resolve.New(snap, goModulePath(snap))
	roots, err := entry.NewDetector(snap, resolver, project.Project).Detect(ctx)
	if err != nil {
		return nil, err
	}
	observability.AnalysisDuration.WithLabelValues("detect").Observe(time.Since(detectStart).Seconds())
	result.Roots = roots

	reachStart := time.Now()
	rootRels := make([]string, len(roots))
	for i, r := range roots {
		rootRels[i] = r.Rel
	}
	reach := g.Reach(rootRels)
	unreachable := g.Unreachable(reach)
	observability.AnalysisDuration.WithLabelValues("reach").Observe(time.Since(reachStart).Seconds())

	counts := map[ports.Classification]int{ports.LikelyDeadCode: 0, ports.LikelyEntryPoint: 0}
	for _, rel := range unreachable {
		finding, ok := classify(project.Config, snap, rel)
		if !ok {
			continue
		}
		result.Findings = append(result.Findings, finding)
		counts[finding.Classification]++
	}
	// Set, not Inc: watch-mode rescans must report the latest run, not a
	// running total.
	for classification, n := range counts {
		observability.FindingsTotal.WithLabelValues(string(classification)).Set(float64(n))
	}

	result.Stats.Nodes = g.NodeCount()
	result.Stats.Edges = g.EdgeCount()
	result.Stats.Externals = len(g.Externals())
	result.Stats.Roots = len(roots)
	result.Stats.Duration = time.Since(start)
	observability.AnalysisDuration.WithLabelValues("total").Observe(result.Stats.Duration.Seconds())

	slog.Info("unused modules analysis done",
		"project", project.Name,
		"files", result.Stats.FilesScanned,
		"roots", result.Stats.Roots,
		"findings", len(result.Findings),
		"duration", result.Stats.Duration)
	return result, nil
}

func (u *UnusedModules) scanPhase(ctx context.Context, project *ports.Project) (*scan.Snapshot, error) {
	ctx, span := observability.Tracer.Start(ctx, "scan")
	defer span.End()
	start := time.Now()
	defer func() {
		observability.AnalysisDuration.WithLabelValues("scan").Observe(time.Since(start).Seconds())
	}()

	scanner, err := scan.NewScanner(project.Config, project.Project)
	if err != nil {
		return nil, err
	}
	return scanner.Scan(ctx, project.Root)
}

// classify decides whether an unreachable file is reported and how. Test
// files and tool-loaded configuration are exempt; entry-like names downgrade
// the severity to likely-entry-point.
func classify(cfg *config.Config, snap *scan.Snapshot, rel string) (ports.Finding, bool) {
	file, ok := snap.Lookup(rel)
	if !ok {
		return ports.Finding{}, false
	}
	if !cfg.Scan.IncludeTests && scan.IsTestFile(rel) {
		return ports.Finding{}, false
	}
	if entry.Exempt(rel, file.Language) {
		return ports.Finding{}, false
	}

	classification, confidence := ports.LikelyDeadCode, ports.ConfidenceHigh
	if entry.LooksEntryLike(rel) || file.Shebang {
		classification, confidence = ports.LikelyEntryPoint, ports.ConfidenceLow
	}
	return ports.Finding{
		Path:           rel,
		Language:       file.Language,
		Classification: classification,
		Confidence:     confidence,
	}, true
}
