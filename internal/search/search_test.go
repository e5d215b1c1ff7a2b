package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"scrn/internal/scanner"
	"scrn/internal/tree"
)

func testModel() *tree.Model {
	m := tree.New()
	m.Load(scanner.Skeleton{Entries: []scanner.Entry{
		{Path: "/w", Name: "w", Depth: 0, Kind: scanner.KindBranch, Parent: -1},
		{Path: "/w/backend", Name: "backend", Depth: 1, Kind: scanner.KindBranch, Parent: 0},
		{Path: "/w/backend/api-server", Name: "api-server", Depth: 2, Kind: scanner.KindLeaf, Parent: 1},
		{Path: "/w/backend/worker", Name: "worker", Depth: 2, Kind: scanner.KindLeaf, Parent: 1},
		{Path: "/w/frontend", Name: "frontend", Depth: 1, Kind: scanner.KindBranch, Parent: 0},
		{Path: "/w/frontend/web-app", Name: "web-app", Depth: 2, Kind: scanner.KindLeaf, Parent: 4},
	}})
	return m
}

func visiblePaths(m *tree.Model) map[string]bool {
	out := map[string]bool{}
	for i := 0; i < m.Len(); i++ {
		n := m.Node(tree.NodeID(i))
		if n.Visible {
			out[n.Path] = true
		}
	}
	return out
}

func TestQueryPrunesToMatchesAndAncestors(t *testing.T) {
	m := testModel()
	e := New(m)
	e.Begin()
	e.SetQuery("apis")

	vis := visiblePaths(m)
	require.True(t, vis["/w/backend/api-server"], "fuzzy match must be visible")
	require.True(t, vis["/w/backend"], "ancestor must be visible")
	require.True(t, vis["/w"], "root ancestor must be visible")
	require.False(t, vis["/w/backend/worker"], "non-match pruned")
	require.False(t, vis["/w/frontend"], "branch with no matching leaves pruned")
}

func TestMatchingBranchNameAloneDoesNotShow(t *testing.T) {
	m := testModel()
	e := New(m)
	e.Begin()
	// "backend" matches only a branch name; with no matching leaf under
	// it, nothing should survive.
	e.SetQuery("backend")
	require.False(t, e.HasMatches())
}

func TestAncestorsForceExpanded(t *testing.T) {
	m := testModel()
	backend, _ := m.ByPath("/w/backend")
	require.False(t, m.Node(backend).Expanded)

	e := New(m)
	e.Begin()
	e.SetQuery("worker")
	require.True(t, m.Node(backend).Expanded, "collapsed ancestor opens so the match is reachable")
}

func TestClearRestoresExpansionSnapshot(t *testing.T) {
	m := testModel()
	backend, _ := m.ByPath("/w/backend")
	frontend, _ := m.ByPath("/w/frontend")
	m.SetExpanded(frontend, true)

	e := New(m)
	e.Begin()
	e.SetQuery("worker")
	require.True(t, m.Node(backend).Expanded)

	e.Clear()
	require.False(t, m.Node(backend).Expanded, "search-forced expansion rolled back")
	require.True(t, m.Node(frontend).Expanded, "pre-search expansion kept")
	require.True(t, e.HasMatches())
	for i := 0; i < m.Len(); i++ {
		require.True(t, m.Node(tree.NodeID(i)).Visible)
	}
}

func TestBeginTwiceKeepsFirstSnapshot(t *testing.T) {
	m := testModel()
	backend, _ := m.ByPath("/w/backend")

	e := New(m)
	e.Begin()
	e.SetQuery("worker") // forces backend open
	e.Begin()            // must not re-snapshot the forced state
	e.Clear()
	require.False(t, m.Node(backend).Expanded)
}

func TestEmptyQueryShowsEverything(t *testing.T) {
	m := testModel()
	e := New(m)
	e.Begin()
	e.SetQuery("worker")
	e.SetQuery("")
	require.Len(t, visiblePaths(m), m.Len())
}

func TestEmptiedQueryRestoresExpansion(t *testing.T) {
	m := testModel()
	backend, _ := m.ByPath("/w/backend")
	frontend, _ := m.ByPath("/w/frontend")
	m.SetExpanded(frontend, true)

	e := New(m)
	e.Begin()
	e.SetQuery("worker") // forces backend open
	// Backspacing the query to empty must behave like a cancel for
	// expansion state, without ending the search session.
	e.SetQuery("")
	require.False(t, m.Node(backend).Expanded, "search-forced expansion rolled back on empty query")
	require.True(t, m.Node(frontend).Expanded, "pre-search expansion kept")
	require.True(t, e.Active())

	// Typing again still works against the same baseline.
	e.SetQuery("worker")
	require.True(t, m.Node(backend).Expanded)
	e.Clear()
	require.False(t, m.Node(backend).Expanded)
}

func TestNoMatches(t *testing.T) {
	m := testModel()
	e := New(m)
	e.Begin()
	e.SetQuery("qqqqqq")
	require.False(t, e.HasMatches())
	require.Empty(t, m.Flatten())
}

func TestMatchIsSubsequence(t *testing.T) {
	require.True(t, Match("wapp", "web-app"))
	require.True(t, Match("", "anything"))
	require.False(t, Match("xyz", "web-app"))
}
