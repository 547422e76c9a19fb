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
	"fmt"
	"sort"
)

// NodeKind classifies a graph node.
type NodeKind int

const (
	// KindFunction is a function or method node.
	KindFunction NodeKind = iota

	// KindClass is a class node.
	KindClass

	// KindModule is a module node.
	KindModule
)

// String returns the string representation of the NodeKind.
func (k NodeKind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindModule:
		return "module"
	default:
		return "unknown"
	}
}

// EdgeKind classifies a directed edge.
type EdgeKind int

const (
	// EdgeContains links a module to a function or class it declares.
	EdgeContains EdgeKind = iota

	// EdgeMethodOf links a class to one of its methods.
	EdgeMethodOf

	// EdgeImports links sibling modules in both directions. Heuristic;
	// see the package documentation.
	EdgeImports
)

// String returns the string representation of the EdgeKind.
func (k EdgeKind) String() string {
	switch k {
	case EdgeContains:
		return "contains"
	case EdgeMethodOf:
		return "method_of"
	case EdgeImports:
		return "imports"
	default:
		return "unknown"
	}
}

// Node is a vertex in the dependency graph.
//
// Nodes are immutable once the graph is built.
type Node struct {
	// ID is the globally unique node identifier. See the package
	// documentation for the concatenation convention.
	ID string

	// Kind is the node classification.
	Kind NodeKind

	// Repo is the owning repository name.
	Repo string

	// ModulePath is the dotted module path (empty string allowed).
	ModulePath string

	// SourceFile is the declaring file, when the manifest recorded one.
	SourceFile string
}

// Edge is a directed edge between two nodes.
type Edge struct {
	// FromID is the source node ID.
	FromID string

	// ToID is the target node ID.
	ToID string

	// Kind is the edge classification.
	Kind EdgeKind
}

// NodeSet is a set of node IDs.
type NodeSet map[string]struct{}

// Has reports whether the set contains id.
func (s NodeSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the set's members in lexical order.
func (s NodeSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Union returns a new set containing the members of both sets.
func (s NodeSet) Union(other NodeSet) NodeSet {
	out := make(NodeSet, len(s)+len(other))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range other {
		out[id] = struct{}{}
	}
	return out
}

// Stats summarizes a built graph.
type Stats struct {
	// NodeCount is the total number of nodes.
	NodeCount int `json:"node_count"`

	// EdgeCount is the total number of directed edges.
	EdgeCount int `json:"edge_count"`

	// ConnectedComponents is the number of weakly connected components.
	ConnectedComponents int `json:"connected_components"`

	// IsDAG reports whether the directed graph is acyclic. Expect false
	// on realistic inputs because of the bidirectional sibling edges.
	IsDAG bool `json:"is_dag"`
}

// Graph is the dependency graph for the union of all loaded manifests.
//
// Thread Safety: read-only after Build returns; safe for concurrent
// queries.
type Graph struct {
	nodes    map[string]*Node
	edges    []*Edge
	outgoing map[string][]*Edge
	incoming map[string][]*Edge
}

// newGraph returns an empty graph ready for building.
func newGraph() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		edges:    make([]*Edge, 0),
		outgoing: make(map[string][]*Edge),
		incoming: make(map[string][]*Edge),
	}
}

// NodeID returns the canonical node ID for a top-level symbol.
//
// The convention "{repo}::{module.path}.{symbol}" is load-bearing:
// manifest check matches are mapped back onto graph nodes with it, and
// operational tooling keys off it.
func NodeID(repo, modulePath, symbol string) string {
	return fmt.Sprintf("%s::%s.%s", repo, modulePath, symbol)
}

// MethodNodeID returns the canonical node ID for a method, qualified by
// its owning class.
func MethodNodeID(repo, modulePath, class, method string) string {
	return fmt.Sprintf("%s::%s.%s.%s", repo, modulePath, class, method)
}

// ModuleNodeID returns the canonical node ID for a module.
func ModuleNodeID(repo, modulePath string) string {
	return fmt.Sprintf("%s::%s", repo, modulePath)
}

// HasNode reports whether the graph contains a node with the given ID.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// GetNode returns the node with the given ID, or nil if absent.
func (g *Graph) GetNode(id string) *Node {
	return g.nodes[id]
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// NumEdges returns the directed edge count.
func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// Edges returns all edges. Callers must not mutate the result.
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// addNode inserts a node. ID collisions are a construction bug in the
// builder, not a runtime condition, so they are not handled defensively;
// IDs are repo-qualified which keeps them globally unique.
func (g *Graph) addNode(n *Node) {
	g.nodes[n.ID] = n
}

// addEdge inserts a directed edge between existing nodes.
func (g *Graph) addEdge(fromID, toID string, kind EdgeKind) {
	e := &Edge{FromID: fromID, ToID: toID, Kind: kind}
	g.edges = append(g.edges, e)
	g.outgoing[fromID] = append(g.outgoing[fromID], e)
	g.incoming[toID] = append(g.incoming[toID], e)
}
