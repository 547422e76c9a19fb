// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph builds and queries the codebase dependency graph used
// for blast-radius estimation.
//
// Nodes are functions, classes, and modules taken from repository
// manifests. Three edge kinds exist:
//
//   - contains: module → function/class
//   - method_of: class → method
//   - imports: module ↔ module, for modules sharing a parent package
//
// # The sibling-import heuristic
//
// The imports edges are NOT derived from real import statements. Any
// two modules in the same repository that share an immediate parent
// package get edges in both directions, standing in for "these modules
// are probably coupled". This is a deliberate over-approximation: it is
// the dominant source of cycles (Stats().IsDAG is usually false) and it
// widens blast radius rather than narrowing it. Downstream risk scoring
// depends on the estimate staying conservative, so keep the heuristic
// coarse rather than trying to make it precise.
//
// # Node identifiers
//
// Node IDs are globally unique strings with the convention
//
//	{repo}::{dotted.module.path}.{Symbol}
//
// and method IDs additionally qualified by their owning class:
//
//	{repo}::{dotted.module.path}.{Class}.{method}
//
// External tools key off this format; see NodeID and MethodNodeID.
// Different repositories never share nodes, and the builder never
// creates cross-repository edges.
//
// # Lifecycle
//
// A graph is built once per feasibility assessment with Build and is
// read-only afterwards. Queries are safe for concurrent use on a built
// graph. Queries never fail on unknown node IDs; they return empty
// results.
package graph
