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
	"sort"
	"strings"
	"time"

	"github.com/AleutianAI/papergate/services/feasibility/manifest"
)

// Build constructs a dependency graph from parsed repository manifests.
//
// Description:
//
//	Pure data transformation: a manifest with zero functions and zero
//	classes contributes zero nodes, and there are no failure modes.
//	Per manifest:
//
//	 1. Each function gets a function node plus a contains edge from its
//	    module node (created once per (repo, module path)).
//	 2. Each class gets a class node plus a contains edge from its
//	    module. Each of the class's methods gets a method node whose ID
//	    embeds the class name and a method_of edge from the class.
//	    Methods are NOT linked to the module directly.
//	 3. Every pair of distinct modules seen in the manifest whose parent
//	    package (module path minus the last dot-segment) is identical
//	    and non-empty gets imports edges in both directions.
//
//	No cross-repository edges are ever created.
//
// Inputs:
//
//	ctx - Context for the build span. Must not be nil.
//	manifests - Parsed manifests; order does not affect the result.
//
// Outputs:
//
//	*Graph - The built graph. Never nil. Read-only from here on.
func Build(ctx context.Context, manifests []*manifest.RepositoryManifest) *Graph {
	start := time.Now()
	_, span := startBuildSpan(ctx, len(manifests))
	defer span.End()

	g := newGraph()

	for _, m := range manifests {
		repo := m.RepoName
		modulesSeen := make(map[string]string) // module path -> node ID

		ensureModule := func(modulePath string) string {
			modID := ModuleNodeID(repo, modulePath)
			if !g.HasNode(modID) {
				g.addNode(&Node{
					ID:         modID,
					Kind:       KindModule,
					Repo:       repo,
					ModulePath: modulePath,
				})
			}
			modulesSeen[modulePath] = modID
			return modID
		}

		for i := range m.Functions {
			fn := &m.Functions[i]
			funcID := NodeID(repo, fn.ModulePath, fn.Name)
			g.addNode(&Node{
				ID:         funcID,
				Kind:       KindFunction,
				Repo:       repo,
				ModulePath: fn.ModulePath,
				SourceFile: fn.SourceFile,
			})

			modID := ensureModule(fn.ModulePath)
			g.addEdge(modID, funcID, EdgeContains)
		}

		for i := range m.Classes {
			cls := &m.Classes[i]
			clsID := NodeID(repo, cls.ModulePath, cls.Name)
			g.addNode(&Node{
				ID:         clsID,
				Kind:       KindClass,
				Repo:       repo,
				ModulePath: cls.ModulePath,
				SourceFile: cls.SourceFile,
			})

			modID := ensureModule(cls.ModulePath)
			g.addEdge(modID, clsID, EdgeContains)

			for j := range cls.Methods {
				method := &cls.Methods[j]
				methodID := MethodNodeID(repo, cls.ModulePath, cls.Name, method.Name)
				g.addNode(&Node{
					ID:         methodID,
					Kind:       KindFunction,
					Repo:       repo,
					ModulePath: cls.ModulePath,
					SourceFile: method.SourceFile,
				})
				g.addEdge(clsID, methodID, EdgeMethodOf)
			}
		}

		addSiblingEdges(g, modulesSeen)
	}

	recordBuildMetrics(ctx, time.Since(start), len(manifests), g.NumNodes(), g.NumEdges())
	setBuildSpanResult(span, g.NumNodes(), g.NumEdges())
	return g
}

// addSiblingEdges adds bidirectional imports edges between all pairs of
// distinct modules in one manifest sharing a non-empty parent package.
// Deliberate approximation; see the package documentation.
func addSiblingEdges(g *Graph, modulesSeen map[string]string) {
	paths := make([]string, 0, len(modulesSeen))
	for p := range modulesSeen {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for i, p1 := range paths {
		parent1 := parentPackage(p1)
		if parent1 == "" {
			continue
		}
		for _, p2 := range paths[i+1:] {
			if parent1 != parentPackage(p2) {
				continue
			}
			id1, id2 := modulesSeen[p1], modulesSeen[p2]
			g.addEdge(id1, id2, EdgeImports)
			g.addEdge(id2, id1, EdgeImports)
		}
	}
}

// parentPackage returns the module path minus its last dot-segment, or
// the empty string for top-level modules.
func parentPackage(modulePath string) string {
	idx := strings.LastIndex(modulePath, ".")
	if idx < 0 {
		return ""
	}
	return modulePath[:idx]
}
