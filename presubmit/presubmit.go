// Copyright 2025 The Sommelier Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command git-presubmit checks the files changed by a git commit for
// style issues with git-clang-format. It runs the formatter in diff
// mode against the commit's parent, filters the changed files against
// the glob patterns in the repository's .presubmitignore file, and
// either reports the offenders or applies the formatter's diff in
// place. See "git-presubmit help" for details.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

var (
	flags   *flag.FlagSet
	verbose = new(count) // installed as -v below
	noRun   = new(bool)

	flagCommit      string
	flagFix         bool
	flagDiff        bool
	flagStyle       string
	flagClangFormat string
	flagColor       string
	flagInstallHook bool
)

func initFlags() {
	flags = flag.NewFlagSet("git-presubmit", flag.ExitOnError)
	flags.Usage = func() {
		fmt.Fprintf(stderr(), usage, os.Args[0], os.Args[0])
	}
	flags.Var(verbose, "v", "report commands")
	flags.BoolVar(noRun, "n", false, "print but do not run commands")
	flags.StringVar(&flagCommit, "commit", "HEAD", "the commit to check")
	flags.BoolVar(&flagFix, "fix", false, "fix any formatting errors automatically")
	flags.BoolVar(&flagDiff, "diff", false, "show the diff output of clang-format")
	flags.StringVar(&flagStyle, "style", "Chromium", "clang-format style to check against")
	flags.StringVar(&flagClangFormat, "clang-format", "git-clang-format", "formatter command to run")
	flags.StringVar(&flagColor, "color", "auto", "colorize diff output: auto, always, or never")
	flags.BoolVar(&flagInstallHook, "install-hook", false, "install the pre-push git hook and exit")
}

const globalFlags = "[-n] [-v]"

const usage = `Usage: %s [flags] ` + globalFlags + `
Type "%s help" for more information.
`

const help = `Usage: %s [flags] ` + globalFlags + `

The git-presubmit command checks whether the files changed by a commit
follow the clang-format style, and optionally rewrites them so they do.

It runs the formatter in diff mode over <commit>^..<commit>, extracts
the changed file paths from the diff, and drops every path matched by a
glob pattern in the .presubmitignore file at the repository toplevel.
If any file remains, the offenders are listed and the command exits
with status 1; with -fix, the formatter's diff is piped into git apply
instead and the command exits with status 0.

The -v flag prints all commands that make changes.
The -n flag prints all commands that would be run, but does not run them.

Flags:

	-commit <ref>
		Check the given commit instead of HEAD. The commit must
		have a parent.

	-fix
		Apply the formatter's diff to the working tree instead of
		reporting the violations.

	-diff
		Include the formatter's diff output in the violation
		report.

	-style <name>
		Pass the given style to the formatter (default Chromium).

	-clang-format <cmd>
		Formatter command to run (default git-clang-format).

	-color <auto|always|never>
		Colorize the diff output (default auto: only when
		writing to a terminal).

	-install-hook
		Install a pre-push hook that checks every outgoing
		commit, then exit.
`

func main() {
	initFlags()
	flags.Parse(os.Args[1:])

	args := flags.Args()
	if len(args) == 1 && args[0] == "help" {
		fmt.Fprintf(stdout(), help, os.Args[0])
		return
	}
	if len(args) > 0 {
		flags.Usage()
		if dieTrap != nil {
			dieTrap()
		}
		os.Exit(2)
	}

	if flagInstallHook {
		installHook()
		return
	}
	checkFormat()
}

// count is a flag.Value that is like a flag.Bool and a flag.Int.
// If used as -name, it increments the count, but -name=x sets the count.
// Used for verbose flag -v.
type count int

func (c *count) String() string {
	return fmt.Sprint(int(*c))
}

func (c *count) Set(s string) error {
	switch s {
	case "true":
		*c++
	case "false":
		*c = 0
	default:
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid count %q", s)
		}
		*c = count(n)
	}
	return nil
}

func (c *count) IsBoolFlag() bool {
	return true
}
