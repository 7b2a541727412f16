package scan

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/src-d/enry/v2"
)

// Fixed extension table for the supported languages. Detection is extension
// first; content sniffing only backs up extensionless executables.
var extToLanguage = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".java": "java",
	".cs":   "csharp",
	".go":   "go",
	".rb":   "ruby",
	".php":  "php",
}

var enryToLanguage = map[string]string{
	"Python":     "python",
	"JavaScript": "javascript",
	"TypeScript": "typescript",
	"Java":       "java",
	"C#":         "csharp",
	"Go":         "go",
	"Ruby":       "ruby",
	"PHP":        "php",
}

// DetectLanguage maps a path (and, for extensionless shebang scripts, its
// leading content) to a supported language id, or "" when unsupported.
func DetectLanguage(path string, head []byte) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extToLanguage[ext]; ok {
		return lang
	}
	if ext == "" && len(head) > 1 && head[0] == '#' && head[1] == '!' {
		return enryToLanguage[enry.GetLanguage(filepath.Base(path), head)]
	}
	return ""
}

// SupportedExtensions returns the extension table keys in sorted order.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extToLanguage))
	for ext := range extToLanguage {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
