// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/papergate/cmd/papergate/config"
	"github.com/AleutianAI/papergate/services/feasibility/graph"
	"github.com/AleutianAI/papergate/services/feasibility/manifest"
)

// graphCmd is the parent graph command.
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Query the manifest dependency graph",
	Long: `Commands for inspecting the dependency graph built from repository
manifests.

Node ID formats:
  - Function: "{repo}::{module.path}.{FunctionName}"
  - Method:   "{repo}::{module.path}.{ClassName}.{method}"
  - Module:   "{repo}::{module.path}"

Examples:
  papergate graph stats
  papergate graph downstream "webapp::auth.middleware.check_token"
  papergate graph path "webapp::a.f" "webapp::b.g"`,
}

var graphStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print node/edge counts and component structure",
	RunE:  runGraphStats,
}

var graphDownstreamCmd = &cobra.Command{
	Use:   "downstream NODE_ID",
	Short: "List all nodes reachable from a node via directed edges",
	Args:  cobra.ExactArgs(1),
	RunE:  runGraphDownstream,
}

var graphUpstreamCmd = &cobra.Command{
	Use:   "upstream NODE_ID",
	Short: "List all nodes that can reach a node via directed edges",
	Args:  cobra.ExactArgs(1),
	RunE:  runGraphUpstream,
}

var graphPathCmd = &cobra.Command{
	Use:   "path FROM TO",
	Short: "Find the shortest directed path between two nodes",
	Args:  cobra.ExactArgs(2),
	RunE:  runGraphPath,
}

var graphWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the manifests directory and rebuild the graph on change",
	RunE:  runGraphWatch,
}

// resolveManifestsDir prefers the flag over the config value.
func resolveManifestsDir() string {
	if manifestsDirFlag != "" {
		return manifestsDirFlag
	}
	return config.ExpandPath(config.Global.Manifests.Dir)
}

// buildGraphFromManifests loads the manifests directory and builds the
// dependency graph.
func buildGraphFromManifests(ctx context.Context) (*graph.Graph, error) {
	dir := resolveManifestsDir()
	manifests, err := manifest.LoadAll(dir)
	if err != nil {
		return nil, fmt.Errorf("load manifests from %s: %w", dir, err)
	}
	return graph.Build(ctx, manifests), nil
}

func runGraphStats(cmd *cobra.Command, args []string) error {
	g, err := buildGraphFromManifests(cmd.Context())
	if err != nil {
		return err
	}

	stats := g.Stats()
	if jsonOutput {
		return printJSON(stats)
	}

	fmt.Printf("Nodes:       %d\n", stats.NodeCount)
	fmt.Printf("Edges:       %d\n", stats.EdgeCount)
	fmt.Printf("Components:  %d\n", stats.ConnectedComponents)
	fmt.Printf("Acyclic:     %v\n", stats.IsDAG)
	return nil
}

func runGraphDownstream(cmd *cobra.Command, args []string) error {
	g, err := buildGraphFromManifests(cmd.Context())
	if err != nil {
		return err
	}
	return printNodeList(g.Downstream(args[0]).Sorted())
}

func runGraphUpstream(cmd *cobra.Command, args []string) error {
	g, err := buildGraphFromManifests(cmd.Context())
	if err != nil {
		return err
	}
	return printNodeList(g.Upstream(args[0]).Sorted())
}

func runGraphPath(cmd *cobra.Command, args []string) error {
	g, err := buildGraphFromManifests(cmd.Context())
	if err != nil {
		return err
	}

	path := g.ShortestPath(args[0], args[1])
	if path == nil {
		fmt.Println("No path found.")
		return nil
	}
	return printNodeList(path)
}

func runGraphWatch(cmd *cobra.Command, args []string) error {
	dir := resolveManifestsDir()
	logger := slog.Default()

	// Initial build so watchers see current stats immediately.
	if err := rebuildAndLog(cmd.Context(), logger); err != nil {
		return err
	}

	watcher, err := manifest.NewWatcher(dir, func(changes []manifest.Change) {
		logger.Info("manifest change detected", slog.Int("files", len(changes)))
		if err := rebuildAndLog(context.Background(), logger); err != nil {
			logger.Error("graph rebuild failed", slog.String("error", err.Error()))
		}
	}, nil)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Start(cmd.Context()); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Stop()

	fmt.Printf("Watching %s for manifest changes. Ctrl-C to stop.\n", dir)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	return nil
}

// rebuildAndLog rebuilds the graph and logs its stats.
func rebuildAndLog(ctx context.Context, logger *slog.Logger) error {
	start := time.Now()
	g, err := buildGraphFromManifests(ctx)
	if err != nil {
		return err
	}
	stats := g.Stats()
	logger.Info("graph rebuilt",
		slog.Int("nodes", stats.NodeCount),
		slog.Int("edges", stats.EdgeCount),
		slog.Int("components", stats.ConnectedComponents),
		slog.Bool("acyclic", stats.IsDAG),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func printNodeList(ids []string) error {
	if jsonOutput {
		return printJSON(ids)
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}
