// Copyright 2025 The Sommelier Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
)

const ignoreFile = ".presubmitignore"

// loadIgnorePatterns reads the glob patterns from the .presubmitignore
// file at the repository toplevel, one pattern per line, blank lines
// skipped. A missing or unreadable file is fatal.
func loadIgnorePatterns() []string {
	name := filepath.Join(repoRoot(), ignoreFile)
	data, err := os.ReadFile(name)
	if err != nil {
		dief("reading %s: %v", ignoreFile, err)
	}
	return nonBlankLines(string(data))
}

// filterIgnored returns files with every path matching one of the glob
// patterns removed, preserving the order of the remainder. A pattern
// must match the whole path; * matches any run of characters, path
// separators included, the way fnmatch globs do.
func filterIgnored(files, patterns []string) []string {
	ignored := make(map[string]bool)
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			dief("bad ignore pattern %q: %v", pattern, err)
		}
		for _, f := range files {
			if g.Match(f) {
				ignored[f] = true
			}
		}
	}
	var kept []string
	for _, f := range files {
		if !ignored[f] {
			kept = append(kept, f)
		}
	}
	return kept
}
