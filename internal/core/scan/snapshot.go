package scan

import (
	"sort"
	"strings"
)

// SourceFile is one scanned candidate module. Immutable once produced.
type SourceFile struct {
	Path     string // absolute, cleaned
	Rel      string // slash-normalized, relative to the project root
	Language string
	Size     int64
	Shebang  bool // first line starts with #!
}

type WarningKind string

const (
	WarnUnreadable WarningKind = "unreadable"
	WarnOversized  WarningKind = "oversized"
	WarnTimeout    WarningKind = "timeout"
	WarnParse      WarningKind = "parse"
)

// Warning records a per-file problem that did not abort the run.
type Warning struct {
	Path   string
	Kind   WarningKind
	Detail string
}

// Snapshot is the read-only result of one scan pass. All resolver existence
// checks run against it instead of the live filesystem.
type Snapshot struct {
	Root     string
	Files    []SourceFile // ordered by Rel
	Others   []string     // non-source rel paths (manifests, docs, ...)
	Warnings []Warning

	byRel  map[string]int
	byDir  map[string][]string
	others map[string]bool
}

// SnapshotFromFiles builds a snapshot directly from an already known file
// list, bypassing the filesystem walk. Rescans that reuse prior scan results
// go through this.
func SnapshotFromFiles(root string, files []SourceFile) *Snapshot {
	s := newSnapshot(root)
	for _, f := range files {
		s.addSource(f)
	}
	s.finish()
	return s
}

func newSnapshot(root string) *Snapshot {
	return &Snapshot{
		Root:   root,
		byRel:  make(map[string]int),
		byDir:  make(map[string][]string),
		others: make(map[string]bool),
	}
}

func (s *Snapshot) addSource(f SourceFile) {
	if _, dup := s.byRel[f.Rel]; dup {
		return
	}
	s.byRel[f.Rel] = len(s.Files)
	s.Files = append(s.Files, f)

	dir := parentDir(f.Rel)
	s.byDir[dir] = append(s.byDir[dir], f.Rel)
}

func (s *Snapshot) addOther(rel string) {
	if s.others[rel] {
		return
	}
	s.others[rel] = true
	s.Others = append(s.Others, rel)
}

func (s *Snapshot) finish() {
	sort.Slice(s.Files, func(i, j int) bool { return s.Files[i].Rel < s.Files[j].Rel })
	for i := range s.Files {
		s.byRel[s.Files[i].Rel] = i
	}
	for dir := range s.byDir {
		sort.Strings(s.byDir[dir])
	}
	sort.Strings(s.Others)
	sort.Slice(s.Warnings, func(i, j int) bool {
		if s.Warnings[i].Path != s.Warnings[j].Path {
			return s.Warnings[i].Path < s.Warnings[j].Path
		}
		return s.Warnings[i].Kind < s.Warnings[j].Kind
	})
}

// Contains reports whether rel names a scanned source file.
func (s *Snapshot) Contains(rel string) bool {
	_, ok := s.byRel[rel]
	return ok
}

// Lookup returns the scanned source file for rel.
func (s *Snapshot) Lookup(rel string) (SourceFile, bool) {
	idx, ok := s.byRel[rel]
	if !ok {
		return SourceFile{}, false
	}
	return s.Files[idx], true
}

// FilesInDir returns the source files directly inside the rel directory.
func (s *Snapshot) FilesInDir(dir string) []string {
	return s.byDir[strings.TrimSuffix(dir, "/")]
}

// FindBySuffix returns every source file whose rel path ends with the given
// slash-separated suffix at a segment boundary. Used for package-style
// resolution (java/csharp/php namespaces).
func (s *Snapshot) FindBySuffix(suffix string) []string {
	suffix = strings.Trim(suffix, "/")
	if suffix == "" {
		return nil
	}
	var out []string
	for _, f := range s.Files {
		if f.Rel == suffix || strings.HasSuffix(f.Rel, "/"+suffix) {
			out = append(out, f.Rel)
		}
	}
	return out
}

// DirsBySuffix returns every directory (holding at least one source file)
// whose rel path ends with the given suffix at a segment boundary.
func (s *Snapshot) DirsBySuffix(suffix string) []string {
	suffix = strings.Trim(suffix, "/")
	if suffix == "" {
		return nil
	}
	var out []string
	for dir := range s.byDir {
		if dir == suffix || strings.HasSuffix(dir, "/"+suffix) {
			out = append(out, dir)
		}
	}
	sort.Strings(out)
	return out
}

func parentDir(rel string) string {
	idx := strings.LastIndex(rel, "/")
	if idx < 0 {
		return ""
	}
	return rel[:idx]
}
