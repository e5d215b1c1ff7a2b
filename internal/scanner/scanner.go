package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"scrn/internal/logging"
)

type Kind int

const (
	KindBranch Kind = iota
	KindLeaf
)

// Entry is one directory in the scanned skeleton, in pre-order. Parent is
// the index of the parent entry within the same skeleton, -1 for roots.
type Entry struct {
	Path   string
	Name   string
	Depth  int
	Kind   Kind
	Parent int
}

// Warning records a directory that could not be read. Scanning never fails
// on unreadable directories; they are skipped and reported.
type Warning struct {
	Path string
	Err  error
}

type Skeleton struct {
	Entries  []Entry
	Warnings []Warning
}

// Scan walks the primary workspace root and any secondary "common folder"
// roots, producing one skeleton: the primary subtree first, then one
// top-level branch per secondary root, in configured order. Roots are
// scanned concurrently; output order stays deterministic.
func Scan(primary string, secondary []string) Skeleton {
	type part struct {
		entries  []Entry
		warnings []Warning
	}
	parts := make([]part, 1+len(secondary))

	g := new(errgroup.Group)
	g.Go(func() error {
		w := newWalker(policyRepoLeaves)
		parts[0] = part{w.scanRoot(primary), w.warnings}
		return nil
	})
	for i, root := range secondary {
		g.Go(func() error {
			w := newWalker(policyAllLeaves)
			parts[i+1] = part{w.scanRoot(root), w.warnings}
			return nil
		})
	}
	_ = g.Wait()

	var sk Skeleton
	for _, p := range parts {
		base := len(sk.Entries)
		for _, e := range p.entries {
			if e.Parent >= 0 {
				e.Parent += base
			}
			sk.Entries = append(sk.Entries, e)
		}
		sk.Warnings = append(sk.Warnings, p.warnings...)
	}
	for _, w := range sk.Warnings {
		logging.Logger.Warn("skipped unreadable directory", "path", w.Path, "error", w.Err)
	}
	return sk
}

type policy int

const (
	// policyRepoLeaves: directories carrying a .git marker are leaves and
	// are not recursed into; everything else is a branch.
	policyRepoLeaves policy = iota
	// policyAllLeaves: every directory becomes a leaf, attached directly
	// beneath the root branch and named by its path relative to the root.
	policyAllLeaves
)

type walker struct {
	policy   policy
	visited  map[string]bool
	warnings []Warning
}

func newWalker(p policy) *walker {
	return &walker{policy: p, visited: make(map[string]bool)}
}

func (w *walker) scanRoot(root string) []Entry {
	root = filepath.Clean(root)
	entries := []Entry{{
		Path:   root,
		Name:   filepath.Base(root),
		Depth:  0,
		Kind:   KindBranch,
		Parent: -1,
	}}
	w.markVisited(root)
	if w.policy == policyAllLeaves {
		return w.scanFlat(root, entries)
	}
	return w.scanDir(root, 0, 1, entries)
}

func (w *walker) scanDir(dir string, parent, depth int, entries []Entry) []Entry {
	for _, sub := range w.subdirs(dir) {
		path := filepath.Join(dir, sub)
		if w.cyclic(path) {
			continue
		}
		if isRepo(path) {
			entries = append(entries, Entry{
				Path:   path,
				Name:   sub,
				Depth:  depth,
				Kind:   KindLeaf,
				Parent: parent,
			})
			continue
		}
		entries = append(entries, Entry{
			Path:   path,
			Name:   sub,
			Depth:  depth,
			Kind:   KindBranch,
			Parent: parent,
		})
		entries = w.scanDir(path, len(entries)-1, depth+1, entries)
	}
	return entries
}

// scanFlat implements the common-folders policy: every directory under the
// root, found recursively, becomes a leaf child of the root branch. Nested
// directories keep their relative path as the display name so hierarchy
// stays legible in the flat list.
func (w *walker) scanFlat(root string, entries []Entry) []Entry {
	var walk func(dir string)
	walk = func(dir string) {
		for _, sub := range w.subdirs(dir) {
			path := filepath.Join(dir, sub)
			if w.cyclic(path) {
				continue
			}
			name, err := filepath.Rel(root, path)
			if err != nil {
				name = sub
			}
			entries = append(entries, Entry{
				Path:   path,
				Name:   name,
				Depth:  1,
				Kind:   KindLeaf,
				Parent: 0,
			})
			walk(path)
		}
	}
	walk(root)
	return entries
}

// subdirs lists non-hidden subdirectories, sorted case-insensitively.
// Read failures become warnings, not errors.
func (w *walker) subdirs(dir string) []string {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		w.warnings = append(w.warnings, Warning{Path: dir, Err: err})
		return nil
	}
	var names []string
	for _, d := range dirents {
		if !d.IsDir() {
			continue
		}
		if strings.HasPrefix(d.Name(), ".") {
			continue
		}
		names = append(names, d.Name())
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

// cyclic resolves symlinks and reports whether the canonical path was
// already visited, breaking symlink loops.
func (w *walker) cyclic(path string) bool {
	canonical, err := filepath.EvalSymlinks(path)
	if err != nil {
		canonical = path
	}
	return !w.markVisited(canonical)
}

func (w *walker) markVisited(canonical string) bool {
	if w.visited[canonical] {
		return false
	}
	w.visited[canonical] = true
	return true
}

func isRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
