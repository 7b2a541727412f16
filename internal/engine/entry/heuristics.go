package entry

import (
	"path"
	"strings"
)

// Basenames (without extension) conventionally used for executables. An
// unreachable file matching one of these is reported as likely-entry-point
// instead of likely-dead-code.
var entryBasenames = map[string]bool{
	"main":     true,
	"__main__": true,
	"index":    true,
	"app":      true,
	"cli":      true,
	"server":   true,
	"manage":   true,
	"run":      true,
	"start":    true,
}

var entryDirSegments = []string{"bin/", "scripts/", "cmd/"}

// LooksEntryLike reports whether a file is named like an executable entry
// point. Used only to classify unreachable files; it never adds roots.
func LooksEntryLike(rel string) bool {
	lower := strings.ToLower(rel)
	for _, segment := range entryDirSegments {
		if strings.HasPrefix(lower, segment) || strings.Contains(lower, "/"+segment) {
			return true
		}
	}
	base := path.Base(lower)
	name := strings.TrimSuffix(base, path.Ext(base))
	return entryBasenames[name]
}

// jsConfigFiles are loaded by tooling rather than imported by code.
var jsConfigFiles = map[string]bool{
	"babel.config.js":      true,
	"jest.config.js":       true,
	"jest.config.ts":       true,
	"vite.config.js":       true,
	"vite.config.ts":       true,
	"vitest.config.ts":     true,
	"webpack.config.js":    true,
	"rollup.config.js":     true,
	"tailwind.config.js":   true,
	"postcss.config.js":    true,
	"next.config.js":       true,
	"next.config.mjs":      true,
	"eslint.config.js":     true,
	"eslint.config.mjs":    true,
	"prettier.config.js":   true,
	"playwright.config.ts": true,
	"karma.conf.js":        true,
	"gulpfile.js":          true,
	"gruntfile.js":         true,
}

// javaReflectionDirs hold classes commonly instantiated through reflection or
// framework wiring; static import analysis cannot see those uses.
var javaReflectionDirs = []string{"/models/", "/model/", "/dto/", "/dtos/", "/entities/", "/entity/", "/handlers/"}

// Exempt reports whether an unreachable file should be dropped from the
// findings entirely: config files loaded by tooling, TypeScript declaration
// files, and Java classes in reflection-heavy package layouts.
func Exempt(rel, language string) bool {
	lower := strings.ToLower(rel)
	base := path.Base(lower)

	switch language {
	case "javascript", "typescript":
		if jsConfigFiles[base] {
			return true
		}
		if strings.HasSuffix(base, ".d.ts") {
			return true
		}
	case "java":
		padded := "/" + lower
		for _, dir := range javaReflectionDirs {
			if strings.Contains(padded, dir) {
				return true
			}
		}
	}
	return false
}
