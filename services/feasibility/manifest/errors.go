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

import "errors"

// Sentinel errors for manifest operations.
var (
	// ErrManifestParse is returned when a manifest YAML file cannot be
	// parsed at all. Partial or empty content is not a parse error.
	ErrManifestParse = errors.New("manifest parse failed")

	// ErrManifestRead is returned when a manifest file exists but cannot
	// be read.
	ErrManifestRead = errors.New("manifest read failed")

	// ErrWatcherClosed is returned when operating on a closed watcher.
	ErrWatcherClosed = errors.New("manifest watcher is closed")
)
