// Copyright 2025 The Sommelier Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

var runLogTrap []string

// pipeInput runs the specified command with input as its standard input
// and waits for it to complete. It honors -v and -n and is recorded in
// the run log, since it is used for commands that make changes.
func pipeInput(input, command string, args ...string) error {
	if *verbose > 0 || *noRun {
		fmt.Fprintln(stderr(), commandString(command, args))
	}
	if *noRun {
		return nil
	}
	if runLogTrap != nil {
		runLogTrap = append(runLogTrap, strings.TrimSpace(command+" "+strings.Join(args, " ")))
	}
	cmd := exec.Command(command, args...)
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = stdout()
	cmd.Stderr = stderr()
	return cmd.Run()
}

// cmdOutput runs the specified command and returns its standard output,
// unmodified. Standard error passes through to the diagnostic stream.
// It dies on command errors.
// NOTE: It should only be used to run commands that return information,
// **not** commands that make any actual changes.
func cmdOutput(command string, args ...string) string {
	s, err := cmdOutputErr(command, args...)
	if err != nil {
		fmt.Fprintf(stderr(), "%v\n%s\n", commandString(command, args), s)
		dief("%v", err)
	}
	return s
}

// Given a command and its arguments, cmdOutputErr returns the same
// output as cmdOutput, but it returns any error instead of exiting.
func cmdOutputErr(command string, args ...string) (string, error) {
	// NOTE: We only show these non-state-modifying commands with -v -v.
	// Otherwise 'git-presubmit -v' shows all our internal "find out
	// about the git repo" commands, which is confusing if you are just
	// trying to see what would change.
	if *verbose > 1 {
		fmt.Fprintln(stderr(), commandString(command, args))
	}
	cmd := exec.Command(command, args...)
	cmd.Stderr = stderr()
	b, err := cmd.Output()
	return string(b), err
}

func commandString(command string, args []string) string {
	return strings.Join(append([]string{command}, args...), " ")
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

func trimErr(s string, err error) (string, error) {
	return strings.TrimSpace(s), err
}

// nonBlankLines returns the non-blank lines of text,
// with leading and trailing spaces removed.
func nonBlankLines(text string) []string {
	var out []string
	for _, s := range strings.Split(text, "\n") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// makeChange reports whether commands should actually make changes,
// as opposed to just printing them (-n).
func makeChange() bool {
	return !*noRun
}

var dieTrap func()

func dief(format string, args ...interface{}) {
	printf(format, args...)
	die()
}

func die() {
	if dieTrap != nil {
		dieTrap()
	}
	os.Exit(1)
}

func verbosef(format string, args ...interface{}) {
	if *verbose > 0 {
		printf(format, args...)
	}
}

var stdoutTrap, stderrTrap *bytes.Buffer

func stdout() io.Writer {
	if stdoutTrap != nil {
		return stdoutTrap
	}
	return os.Stdout
}

func stderr() io.Writer {
	if stderrTrap != nil {
		return stderrTrap
	}
	return os.Stderr
}

func printf(format string, args ...interface{}) {
	fmt.Fprintf(stderr(), "%s: %s\n", os.Args[0], fmt.Sprintf(format, args...))
}
