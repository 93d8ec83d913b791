package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/nocycle/pkg/dag"
	"github.com/matzehuels/nocycle/pkg/oriented"
)

func TestOracleBasics(t *testing.T) {
	g := New()
	for v := dag.VertexID(0); v < 4; v++ {
		require.NoError(t, g.CreateVertex(v))
	}
	require.ErrorIs(t, g.CreateVertex(0), oriented.ErrVertexAlreadyLive)
	require.ErrorIs(t, g.CreateVertex(oriented.InvalidID), oriented.ErrReservedID)

	changed, err := g.SetEdge(0, 1)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = g.SetEdge(0, 1)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = g.SetEdge(1, 1)
	assert.ErrorIs(t, err, oriented.ErrSelfLoop)
	_, err = g.SetEdge(0, 9)
	assert.ErrorIs(t, err, oriented.ErrVertexNotLive)

	mustSet := func(from, to dag.VertexID) {
		changed, err := g.SetEdge(from, to)
		require.NoError(t, err)
		require.True(t, changed)
	}
	mustSet(1, 2)
	mustSet(2, 3)

	_, err = g.SetEdge(3, 0)
	assert.ErrorIs(t, err, dag.ErrWouldCycle)

	reach, err := g.CanReach(0, 3)
	require.NoError(t, err)
	assert.True(t, reach)
	reach, err = g.CanReach(3, 0)
	require.NoError(t, err)
	assert.False(t, reach)
	reach, err = g.CanReach(0, 0)
	require.NoError(t, err)
	assert.False(t, reach)

	assert.Equal(t, 3, g.EdgeCount())
	assert.Equal(t, [][2]dag.VertexID{{0, 1}, {1, 2}, {2, 3}}, g.Edges())
	assert.Equal(t, []dag.VertexID{1}, g.Outgoing(0))
}

func TestOracleDestroyVertex(t *testing.T) {
	g := New()
	for v := dag.VertexID(0); v < 3; v++ {
		require.NoError(t, g.CreateVertex(v))
	}
	g.SetEdge(0, 1)
	g.SetEdge(1, 2)

	require.NoError(t, g.DestroyVertex(1))
	assert.False(t, g.VertexExists(1))
	assert.Equal(t, 0, g.EdgeCount())
	assert.False(t, g.EdgeExists(0, 1))
	assert.False(t, g.EdgeExists(1, 2))

	require.ErrorIs(t, g.DestroyVertex(1), oriented.ErrVertexNotLive)

	// The freed id is reusable and edges reconnect cleanly.
	require.NoError(t, g.CreateVertex(1))
	changed, err := g.SetEdge(2, 1)
	require.NoError(t, err)
	assert.True(t, changed)
}
