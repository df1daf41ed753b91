// Copyright 2025 The Sommelier Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/mattn/go-isatty"
)

var diffFileRE = regexp.MustCompile(`(?m)^\+\+\+ b/(.*)$`)

// diffFiles extracts the changed file paths from unified diff text.
// Paths appear in diff order; duplicates are kept.
func diffFiles(diff string) []string {
	var files []string
	for _, m := range diffFileRE.FindAllStringSubmatch(diff, -1) {
		files = append(files, m[1])
	}
	return files
}

// writeDiff writes diff text to w, syntax-highlighted per the -color
// flag. Highlighting failures fall back to the plain text.
func writeDiff(w io.Writer, diff string) {
	if !useColor(w) {
		fmt.Fprint(w, diff)
		return
	}
	if err := quick.Highlight(w, diff, "diff", "terminal256", "native"); err != nil {
		fmt.Fprint(w, diff)
	}
}

func useColor(w io.Writer) bool {
	switch flagColor {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
