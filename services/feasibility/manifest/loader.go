// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load parses a single manifest YAML file.
//
// Description:
//
//	Reads and unmarshals one manifest descriptor. A file holding no
//	usable mapping (empty file, YAML null) yields a manifest with only
//	the repo name set. RepoName defaults to the file stem when the
//	descriptor omits it, so the invariant that RepoName is non-empty
//	holds for every loaded manifest.
//
// Inputs:
//
//	path - Path to a manifest YAML file.
//
// Outputs:
//
//	*RepositoryManifest - The parsed manifest. Never nil on success.
//	error - ErrManifestRead or ErrManifestParse wrapped with the path.
func Load(path string) (*RepositoryManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrManifestRead, path, err)
	}

	var m RepositoryManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrManifestParse, path, err)
	}

	if m.RepoName == "" {
		m.RepoName = fileStem(path)
	}
	return &m, nil
}

// LoadAll loads every *.yaml manifest in a directory.
//
// Description:
//
//	Files are read in lexical filename order and the result is sorted
//	by repo name, giving the operation checker a stable manifest order.
//	A missing directory is treated as "zero manifests", not an error;
//	absence of data is modeled as nothing matching downstream.
//
// Inputs:
//
//	dir - Path to the manifests directory.
//
// Outputs:
//
//	[]*RepositoryManifest - Loaded manifests, sorted by repo name.
//	error - Non-nil only when a present file cannot be read or parsed.
func LoadAll(dir string) ([]*RepositoryManifest, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, nil
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrManifestRead, dir, err)
	}
	sort.Strings(paths)

	manifests := make([]*RepositoryManifest, 0, len(paths))
	for _, path := range paths {
		m, err := Load(path)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, m)
	}

	sort.Slice(manifests, func(i, j int) bool {
		return manifests[i].RepoName < manifests[j].RepoName
	})
	return manifests, nil
}

// fileStem returns the file name without its extension.
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
