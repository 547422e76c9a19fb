// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package manifest models the exposed surface of source repositories and
// matches paper-derived operation strings against it.
//
// A repository manifest is a declarative YAML descriptor listing the
// functions, classes, and methods a repository exposes. Manifests are
// loaded once per assessment and are immutable afterwards.
//
// # Absence of data
//
// A missing or empty manifests directory is not an error. It loads as
// zero manifests, which downstream checking reports as zero coverage.
// Only structurally unparseable YAML surfaces as an error.
package manifest

// Parameter describes a single declared parameter of a manifest function.
type Parameter struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type,omitempty"`
	Default     string `yaml:"default,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Attribute describes a declared class attribute.
type Attribute struct {
	Name string `yaml:"name"`
	Type string `yaml:"type,omitempty"`
}

// Function is a single function (or method) entry from a manifest.
//
// Entries are read-only after loading.
type Function struct {
	// Name is the symbol name. Required.
	Name string `yaml:"name"`

	// ModulePath is the dotted module path owning the symbol.
	// May be empty; an empty path still yields a module node in the graph.
	ModulePath string `yaml:"module_path"`

	// Parameters are the declared parameters, if the manifest lists them.
	Parameters []Parameter `yaml:"parameters,omitempty"`

	// ReturnType is the declared return type, if any.
	ReturnType string `yaml:"return_type,omitempty"`

	// ReturnDescription documents the return value, if any.
	ReturnDescription string `yaml:"return_description,omitempty"`

	// Docstring is the symbol documentation, if any. Checked by the
	// operation matcher at docstring priority.
	Docstring string `yaml:"docstring,omitempty"`

	// Decorators lists decorator names applied to the symbol.
	Decorators []string `yaml:"decorators,omitempty"`

	// SourceFile is the file declaring the symbol, if recorded.
	SourceFile string `yaml:"source_file,omitempty"`

	// LineNumber is the declaration line, if recorded.
	LineNumber int `yaml:"line_number,omitempty"`
}

// Class is a single class entry from a manifest. A class owns its
// method entries; methods are not listed at manifest top level.
type Class struct {
	Name            string      `yaml:"name"`
	ModulePath      string      `yaml:"module_path"`
	Bases           []string    `yaml:"bases,omitempty"`
	Methods         []Function  `yaml:"methods,omitempty"`
	ClassAttributes []Attribute `yaml:"class_attributes,omitempty"`
	Docstring       string      `yaml:"docstring,omitempty"`
	SourceFile      string      `yaml:"source_file,omitempty"`
	LineNumber      int         `yaml:"line_number,omitempty"`
}

// RepositoryManifest is the full parsed manifest for one repository.
type RepositoryManifest struct {
	// RepoName identifies the repository. Never empty after loading:
	// the loader defaults it to the manifest file stem.
	RepoName string `yaml:"repo_name"`

	// Version is the manifest schema or repository version string.
	Version string `yaml:"version,omitempty"`

	// GeneratedAt is the RFC 3339 timestamp the manifest was generated,
	// if the generator recorded one. Consumed by the freshness check.
	GeneratedAt string `yaml:"generated_at,omitempty"`

	// Functions are the repository's top-level function entries.
	Functions []Function `yaml:"functions,omitempty"`

	// Classes are the repository's class entries, each owning its methods.
	Classes []Class `yaml:"classes,omitempty"`

	// ModuleTree is the optional declared module → symbol-names mapping.
	ModuleTree map[string][]string `yaml:"module_tree,omitempty"`
}
