package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/duckuio/ducku-cli/internal/core/ports"
)

const driverName = "sqlite"

// Store persists run outcomes to a local sqlite file. It is strictly
// write-only from the analyzer's point of view: nothing in an analysis run
// ever reads prior rows, so history can never change a result.
type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun records one run and its findings under a fresh run id.
func (s *Store) SaveRun(ctx context.Context, result *ports.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := uuid.NewString()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, project, root, use_case, skipped, created_at,
			files_scanned, nodes, edges, externals, roots, findings, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, result.Project, result.Root, result.UseCase, result.Skipped,
		time.Now().UTC().Format(time.RFC3339Nano),
		result.Stats.FilesScanned, result.Stats.Nodes, result.Stats.Edges,
		result.Stats.Externals, result.Stats.Roots, len(result.Findings),
		result.Stats.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, f := range result.Findings {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO findings (run_id, path, language, classification, confidence)
			VALUES (?, ?, ?, ?, ?)`,
			runID, f.Path, f.Language, string(f.Classification), string(f.Confidence))
		if err != nil {
			return fmt.Errorf("insert finding %s: %w", f.Path, err)
		}
	}

	return tx.Commit()
}
