package nav

import (
	"testing"

	"github.com/stretchr/testify/require"

	"scrn/internal/tree"
)

func TestInitialState(t *testing.T) {
	m := NewMachine()
	require.Equal(t, BrowsingTree, m.State())
	require.Equal(t, tree.InvalidID, m.ActiveLeaf())
}

func TestOpenAndReturn(t *testing.T) {
	m := NewMachine()
	require.True(t, m.Open(tree.NodeID(3)))
	require.Equal(t, ActiveSplit, m.State())
	require.Equal(t, tree.NodeID(3), m.ActiveLeaf())

	leaf := m.Return()
	require.Equal(t, tree.NodeID(3), leaf, "return hands back the leaf for selection restore")
	require.Equal(t, BrowsingTree, m.State())
	require.Equal(t, tree.InvalidID, m.ActiveLeaf())
}

func TestNoNestedSplits(t *testing.T) {
	m := NewMachine()
	require.True(t, m.Open(tree.NodeID(1)))
	require.False(t, m.Open(tree.NodeID(2)), "opening from a split is rejected")
	require.Equal(t, tree.NodeID(1), m.ActiveLeaf())
}

func TestOpenRejectsInvalidLeaf(t *testing.T) {
	m := NewMachine()
	require.False(t, m.Open(tree.InvalidID))
	require.Equal(t, BrowsingTree, m.State())
}

func TestReturnOutsideSplit(t *testing.T) {
	m := NewMachine()
	require.Equal(t, tree.InvalidID, m.Return())
}

func TestDetachIsTerminal(t *testing.T) {
	m := NewMachine()
	m.Detach()
	require.Equal(t, Detached, m.State())
	require.False(t, m.Open(tree.NodeID(0)), "no transitions out of detached")
	require.Equal(t, tree.InvalidID, m.Return())
}
