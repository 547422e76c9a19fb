// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/papergate/services/feasibility/manifest"
)

// chainGraph builds a hand-assembled graph a -> b -> c, with d isolated.
func chainGraph(t *testing.T) *Graph {
	t.Helper()
	g := newGraph()
	for _, id := range []string{"a", "b", "c", "d"} {
		g.addNode(&Node{ID: id, Kind: KindFunction, Repo: "r"})
	}
	g.addEdge("a", "b", EdgeContains)
	g.addEdge("b", "c", EdgeContains)
	return g
}

func TestDownstream_Chain(t *testing.T) {
	g := chainGraph(t)

	assert.Equal(t, []string{"b", "c"}, g.Downstream("a").Sorted())
	assert.Equal(t, []string{"c"}, g.Downstream("b").Sorted())
	assert.Empty(t, g.Downstream("c").Sorted())
	assert.Empty(t, g.Downstream("d").Sorted())
}

func TestDownstream_ExcludesSelf(t *testing.T) {
	g := chainGraph(t)
	assert.False(t, g.Downstream("a").Has("a"))
}

func TestDownstream_UnknownID(t *testing.T) {
	g := chainGraph(t)
	assert.Empty(t, g.Downstream("ghost").Sorted())
}

func TestUpstream_Chain(t *testing.T) {
	g := chainGraph(t)

	assert.Empty(t, g.Upstream("a").Sorted())
	assert.Equal(t, []string{"a"}, g.Upstream("b").Sorted())
	assert.Equal(t, []string{"a", "b"}, g.Upstream("c").Sorted())
}

func TestUpstreamDownstream_Duality(t *testing.T) {
	g := Build(context.Background(), []*manifest.RepositoryManifest{{
		RepoName: "webapp",
		Functions: []manifest.Function{
			{Name: "f", ModulePath: "pkg.a"},
			{Name: "g", ModulePath: "pkg.b"},
		},
	}})

	// y in Downstream(x) iff x in Upstream(y), over every pair.
	ids := make([]string, 0, g.NumNodes())
	for _, e := range g.Edges() {
		ids = append(ids, e.FromID, e.ToID)
	}
	for _, x := range ids {
		down := g.Downstream(x)
		for _, y := range ids {
			assert.Equal(t, down.Has(y), g.Upstream(y).Has(x),
				"duality violated for x=%s y=%s", x, y)
		}
	}
}

func TestDownstream_HandlesCycles(t *testing.T) {
	g := newGraph()
	g.addNode(&Node{ID: "m1", Kind: KindModule, Repo: "r"})
	g.addNode(&Node{ID: "m2", Kind: KindModule, Repo: "r"})
	g.addEdge("m1", "m2", EdgeImports)
	g.addEdge("m2", "m1", EdgeImports)

	// Must terminate and exclude the start node.
	assert.Equal(t, []string{"m2"}, g.Downstream("m1").Sorted())
	assert.Equal(t, []string{"m1"}, g.Downstream("m2").Sorted())
}

func TestShortestPath(t *testing.T) {
	g := chainGraph(t)

	tests := []struct {
		name string
		from string
		to   string
		want []string
	}{
		{"direct chain", "a", "c", []string{"a", "b", "c"}},
		{"single hop", "a", "b", []string{"a", "b"}},
		{"self", "b", "b", []string{"b"}},
		{"unreachable", "c", "a", nil},
		{"isolated target", "a", "d", nil},
		{"missing from", "ghost", "a", nil},
		{"missing to", "a", "ghost", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.ShortestPath(tt.from, tt.to))
		})
	}
}

func TestShortestPath_PrefersFewerEdges(t *testing.T) {
	g := newGraph()
	for _, id := range []string{"s", "x", "y", "t"} {
		g.addNode(&Node{ID: id, Kind: KindFunction, Repo: "r"})
	}
	// Long way round: s -> x -> y -> t. Short way: s -> t.
	g.addEdge("s", "x", EdgeContains)
	g.addEdge("x", "y", EdgeContains)
	g.addEdge("y", "t", EdgeContains)
	g.addEdge("s", "t", EdgeContains)

	assert.Equal(t, []string{"s", "t"}, g.ShortestPath("s", "t"))
}

func TestConnectedComponent(t *testing.T) {
	g := chainGraph(t)

	// Direction is ignored: c's component includes a.
	assert.Equal(t, []string{"a", "b", "c"}, g.ConnectedComponent("c").Sorted())
	assert.Equal(t, []string{"d"}, g.ConnectedComponent("d").Sorted())
	assert.Empty(t, g.ConnectedComponent("ghost").Sorted())
}

func TestStats_ChainGraph(t *testing.T) {
	g := chainGraph(t)
	stats := g.Stats()

	assert.Equal(t, 4, stats.NodeCount)
	assert.Equal(t, 2, stats.EdgeCount)
	assert.Equal(t, 2, stats.ConnectedComponents)
	assert.True(t, stats.IsDAG)
}

func TestStats_SiblingEdgesMakeCycles(t *testing.T) {
	g := Build(context.Background(), []*manifest.RepositoryManifest{{
		RepoName: "webapp",
		Functions: []manifest.Function{
			{Name: "f", ModulePath: "pkg.a"},
			{Name: "g", ModulePath: "pkg.b"},
		},
	}})

	stats := g.Stats()
	assert.False(t, stats.IsDAG,
		"bidirectional sibling imports form a two-node cycle")
	assert.Equal(t, 1, stats.ConnectedComponents)
}

func TestStats_EmptyGraph(t *testing.T) {
	g := newGraph()
	stats := g.Stats()

	assert.Equal(t, 0, stats.NodeCount)
	assert.Equal(t, 0, stats.EdgeCount)
	assert.Equal(t, 0, stats.ConnectedComponents)
	assert.True(t, stats.IsDAG)
}

func TestNodeSet_Union(t *testing.T) {
	a := NodeSet{"x": {}, "y": {}}
	b := NodeSet{"y": {}, "z": {}}

	union := a.Union(b)
	assert.Equal(t, []string{"x", "y", "z"}, union.Sorted())
	// Inputs untouched.
	require.Len(t, a, 2)
	require.Len(t, b, 2)
}
