// Copyright 2025 The Sommelier Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strings"
)

// noModifiedFiles is the sentence git-clang-format prints instead of a
// diff when the commit touches nothing the formatter cares about.
const noModifiedFiles = "no modified files to format"

// checkFormat runs the format check pipeline for the -commit flag's
// commit: run the formatter in diff mode against the commit's parent,
// extract the changed paths from the diff, drop the ignored ones, and
// either report the offenders (exit status 1) or, with -fix, feed the
// diff back into git apply (exit status 0).
func checkFormat() {
	commit := flagCommit
	parent := commit + "^"
	resolveCommit(commit) // dies unless commit exists and has a parent

	diff := cmdOutput(flagClangFormat, "--style", flagStyle, "--diff", parent, commit)

	line := trim(cmdOutput("git", "log", parent+".."+commit, "--pretty=oneline"))
	hash, subject, _ := strings.Cut(line, " ")
	if len(hash) > 8 {
		hash = hash[:8]
	}
	fmt.Fprintf(stderr(), "[Commit %s] %s\n", hash, subject)

	if trim(diff) == noModifiedFiles {
		return
	}

	files := diffFiles(diff)
	files = filterIgnored(files, loadIgnorePatterns())
	if len(files) == 0 {
		return
	}

	if flagFix {
		// git apply's exit status is not propagated;
		// the fix path always exits 0.
		pipeInput(diff, "git", "apply")
		return
	}

	fmt.Fprintf(stdout(), "The following files have formatting errors:\n")
	for _, f := range files {
		fmt.Fprintf(stdout(), "\t%s\n", f)
	}
	fmt.Fprintf(stdout(), "You can run `%s -fix %s` to fix this.\n",
		os.Args[0], strings.Join(os.Args[1:], " "))
	if flagDiff {
		fmt.Fprintf(stdout(), "\nDiff output from clang-format:\n\n")
		writeDiff(stdout(), diff)
	}
	die()
}
