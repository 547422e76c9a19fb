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

// Downstream returns every node reachable from id via directed edges,
// excluding id itself.
//
// Iterative BFS; an unknown id yields an empty set, never an error.
func (g *Graph) Downstream(id string) NodeSet {
	return g.reach(id, func(n string) []*Edge { return g.outgoing[n] }, edgeTarget)
}

// Upstream returns every node that can reach id via directed edges,
// excluding id itself.
func (g *Graph) Upstream(id string) NodeSet {
	return g.reach(id, func(n string) []*Edge { return g.incoming[n] }, edgeSource)
}

func edgeTarget(e *Edge) string { return e.ToID }
func edgeSource(e *Edge) string { return e.FromID }

// reach performs BFS from id following next(edge) across edgesOf(node).
func (g *Graph) reach(id string, edgesOf func(string) []*Edge, next func(*Edge) string) NodeSet {
	result := make(NodeSet)
	if !g.HasNode(id) {
		return result
	}

	visited := NodeSet{id: struct{}{}}
	queue := []string{id}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, e := range edgesOf(current) {
			n := next(e)
			if visited.Has(n) {
				continue
			}
			visited[n] = struct{}{}
			result[n] = struct{}{}
			queue = append(queue, n)
		}
	}
	return result
}

// ShortestPath returns the minimum-edge directed path from fromID to
// toID, inclusive of both endpoints.
//
// "No path" is an explicit result: nil is returned when either node is
// missing or the target is unreachable. A node trivially reaches itself
// with a single-element path.
func (g *Graph) ShortestPath(fromID, toID string) []string {
	if !g.HasNode(fromID) || !g.HasNode(toID) {
		return nil
	}
	if fromID == toID {
		return []string{fromID}
	}

	// BFS with parent tracking.
	visited := NodeSet{fromID: struct{}{}}
	parent := make(map[string]string)
	queue := []string{fromID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, e := range g.outgoing[current] {
			if visited.Has(e.ToID) {
				continue
			}
			visited[e.ToID] = struct{}{}
			parent[e.ToID] = current

			if e.ToID == toID {
				return reconstructPath(parent, fromID, toID)
			}
			queue = append(queue, e.ToID)
		}
	}
	return nil
}

// reconstructPath walks the parent map back from toID to fromID.
func reconstructPath(parent map[string]string, fromID, toID string) []string {
	reversed := []string{toID}
	for current := toID; current != fromID; {
		current = parent[current]
		reversed = append(reversed, current)
	}

	path := make([]string, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, reversed[i])
	}
	return path
}

// ConnectedComponent returns the weakly connected component containing
// id, including id itself. The graph is treated as undirected for this
// query only. An unknown id yields an empty set.
func (g *Graph) ConnectedComponent(id string) NodeSet {
	result := make(NodeSet)
	if !g.HasNode(id) {
		return result
	}

	result[id] = struct{}{}
	queue := []string{id}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, e := range g.outgoing[current] {
			if !result.Has(e.ToID) {
				result[e.ToID] = struct{}{}
				queue = append(queue, e.ToID)
			}
		}
		for _, e := range g.incoming[current] {
			if !result.Has(e.FromID) {
				result[e.FromID] = struct{}{}
				queue = append(queue, e.FromID)
			}
		}
	}
	return result
}

// Stats computes summary statistics for the graph.
//
// IsDAG is evaluated on the directed graph as-is. Because sibling
// modules get imports edges in both directions, realistic multi-module
// inputs are cyclic and IsDAG is false.
func (g *Graph) Stats() Stats {
	return Stats{
		NodeCount:           len(g.nodes),
		EdgeCount:           len(g.edges),
		ConnectedComponents: g.countComponents(),
		IsDAG:               g.isDAG(),
	}
}

// countComponents counts weakly connected components.
func (g *Graph) countComponents() int {
	seen := make(NodeSet, len(g.nodes))
	count := 0
	for id := range g.nodes {
		if seen.Has(id) {
			continue
		}
		count++
		for member := range g.ConnectedComponent(id) {
			seen[member] = struct{}{}
		}
	}
	return count
}

// isDAG runs Kahn's algorithm: the graph is acyclic iff every node can
// be peeled off in topological order.
func (g *Graph) isDAG() bool {
	indegree := make(map[string]int, len(g.nodes))
	for id := range g.nodes {
		indegree[id] = len(g.incoming[id])
	}

	queue := make([]string, 0, len(g.nodes))
	for id, deg := range indegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}

	processed := 0
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		processed++

		for _, e := range g.outgoing[current] {
			indegree[e.ToID]--
			if indegree[e.ToID] == 0 {
				queue = append(queue, e.ToID)
			}
		}
	}
	return processed == len(g.nodes)
}
