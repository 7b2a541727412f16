package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/duckuio/ducku-cli/internal/core/app"
	"github.com/duckuio/ducku-cli/internal/core/errors"
	"github.com/duckuio/ducku-cli/internal/core/ports"
	"github.com/duckuio/ducku-cli/internal/shared/version"
)

var (
	watch       = flag.Bool("watch", false, "Re-run the analysis when source files change")
	ui          = flag.Bool("ui", false, "Browse findings in a terminal UI")
	plain       = flag.Bool("plain", false, "Disable color output")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// Exit codes: 0 no findings, 1 findings present, 2 configuration or run error.
const (
	exitClean    = 0
	exitFindings = 1
	exitError    = 2
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("ducku v%s\n", version.Version)
		os.Exit(exitClean)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logOutput := os.Stderr
	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	projects, err := resolveTargets()
	if err != nil {
		slog.Error("cannot resolve analysis targets", "error", err)
		os.Exit(exitError)
	}

	runner, err := newRunner(ctx, projects)
	if err != nil {
		slog.Error("initialization failed", "error", err)
		os.Exit(exitError)
	}
	defer runner.Close()

	code, err := runner.Run(ctx, *watch, *ui, *plain)
	if err != nil {
		if errors.IsCode(err, errors.CodeConfig) {
			slog.Error("configuration error", "error", err)
		} else {
			slog.Error("analysis failed", "error", err)
		}
		os.Exit(exitError)
	}
	os.Exit(code)
}

// resolveTargets picks the projects to analyze. MULTI_FOLDER expands a parent
// directory into one project per child; PROJECT_PATH or the positional
// argument selects a single project; the default is the working directory.
func resolveTargets() ([]*ports.Project, error) {
	if folder := os.Getenv("MULTI_FOLDER"); folder != "" {
		return app.DiscoverProjects(folder)
	}

	root := os.Getenv("PROJECT_PATH")
	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}
	if root == "" {
		root = "."
	}
	project, err := app.LoadProject(root)
	if err != nil {
		return nil, err
	}
	return []*ports.Project{project}, nil
}
