package ports

import (
	"context"
	"time"

	"github.com/duckuio/ducku-cli/internal/core/config"
	"github.com/duckuio/ducku-cli/internal/core/scan"
	"github.com/duckuio/ducku-cli/internal/engine/entry"
)

// Project is one analysis target: a root directory plus its configuration.
type Project struct {
	Name    string
	Root    string
	Config  *config.Config
	Project *config.ProjectConfig
}

// Classification of an unused module finding.
type Classification string

const (
	// LikelyEntryPoint names a file that nothing imports but whose name or
	// location suggests it is executed directly.
	LikelyEntryPoint Classification = "likely-entry-point"
	// LikelyDeadCode names a file that nothing imports and nothing suggests
	// is an executable.
	LikelyDeadCode Classification = "likely-dead-code"
)

// Confidence is a coarse advisory label, not a calibrated score.
type Confidence string

const (
	ConfidenceLow  Confidence = "low"
	ConfidenceHigh Confidence = "high"
)

// Finding is one unused module.
type Finding struct {
	Path           string
	Language       string
	Classification Classification
	Confidence     Confidence
}

// Stats summarizes one analysis run.
type Stats struct {
	FilesScanned int
	Nodes        int
	Edges        int
	Externals    int
	Roots        int
	Duration     time.Duration
}

// Result is the full outcome of one use case run over one project.
type Result struct {
	Project  string
	Root     string
	UseCase  string
	Skipped  bool // use case disabled in project config
	Findings []Finding
	Roots    []entry.Root
	Warnings []scan.Warning
	Stats    Stats
}

// UseCase is one analysis the tool can run over a project.
type UseCase interface {
	Name() string
	Run(ctx context.Context, project *Project) (*Result, error)
}

// Renderer writes a result in one output format.
type Renderer interface {
	Render(result *Result) ([]byte, error)
}

// HistorySink persists run outcomes. Write-only: analysis semantics never
// depend on prior runs.
type HistorySink interface {
	SaveRun(ctx context.Context, result *Result) error
	Close() error
}
