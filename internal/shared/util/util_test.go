package util

import "testing"

func TestNormalizeSlashPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"./lib/a.py", "lib/a.py"},
		{"lib\\a.py", "lib/a.py"},
		{"lib//a.py", "lib/a.py"},
		{".", ""},
		{"  src/b.js ", "src/b.js"},
	}
	for _, tc := range cases {
		if got := NormalizeSlashPath(tc.in); got != tc.want {
			t.Errorf("NormalizeSlashPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHasPathPrefix(t *testing.T) {
	if !HasPathPrefix("lib/a/b.py", "lib/a") {
		t.Error("expected lib/a to contain lib/a/b.py")
	}
	if HasPathPrefix("lib/ab/c.py", "lib/a") {
		t.Error("lib/a must not match sibling lib/ab")
	}
	if !HasPathPrefix("lib", "lib") {
		t.Error("equal paths should match")
	}
}

func TestSortedStringKeys(t *testing.T) {
	m := map[string]int{"b": 1, "a": 2, "c": 3}
	keys := SortedStringKeys(m)
	if len(keys) != 3 || keys[0] != "a" || keys[2] != "c" {
		t.Errorf("unexpected key order: %v", keys)
	}
}

func TestLimiterBurstOfOne(t *testing.T) {
	l := NewLimiterPerMinute(1)
	if !l.Allow() {
		t.Error("first event should pass")
	}
	if l.Allow() {
		t.Error("second immediate event should be throttled")
	}
}
