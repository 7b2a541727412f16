package app

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/duckuio/ducku-cli/internal/core/scan"
)

// goModulePath reads the module path from the project's root go.mod, or ""
// when the project has none. Nested go.mod files (vendored or example trees)
// are ignored; only the root module anchors import resolution.
func goModulePath(snap *scan.Snapshot) string {
	hasRootGoMod := false
	for _, other := range snap.Others {
		if other == "go.mod" {
			hasRootGoMod = true
			break
		}
	}
	if !hasRootGoMod {
		return ""
	}

	data, err := os.ReadFile(filepath.Join(snap.Root, "go.mod"))
	if err != nil {
		return ""
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if rest, ok := strings.CutPrefix(line, "module "); ok {
			return strings.Trim(strings.TrimSpace(rest), `"`)
		}
	}
	return ""
}
