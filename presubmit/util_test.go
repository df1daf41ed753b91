// Copyright 2025 The Sommelier Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

type gitTest struct {
	pwd    string // current directory before test
	tmpdir string // temporary directory holding the repo
	repo   string // repo root
	nwork  int    // number of calls to work method
}

// resetReadOnlyFlagAll resets windows read-only flag
// set on path and any children it contains.
// The flag is set by git and has to be removed.
// os.Remove refuses to remove files with read-only flag set.
func resetReadOnlyFlagAll(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !fi.IsDir() {
		return os.Chmod(path, 0666)
	}

	fd, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fd.Close()

	names, _ := fd.Readdirnames(-1)
	for _, name := range names {
		resetReadOnlyFlagAll(path + string(filepath.Separator) + name)
	}
	return nil
}

func (gt *gitTest) done() {
	os.Chdir(gt.pwd) // change out of gt.tmpdir first, otherwise following os.RemoveAll fails on windows
	resetReadOnlyFlagAll(gt.tmpdir)
	os.RemoveAll(gt.tmpdir)
}

// work adds a commit to the repo so that HEAD has a parent to check.
func (gt *gitTest) work(t *testing.T) {
	gt.nwork++
	write(t, gt.repo+"/file", fmt.Sprintf("new content %d", gt.nwork))
	trun(t, gt.repo, "git", "add", "file")
	suffix := ""
	if gt.nwork > 1 {
		suffix = fmt.Sprintf(" #%d", gt.nwork)
	}
	trun(t, gt.repo, "git", "commit", "-m", fmt.Sprintf("msg%s", suffix))
}

func newGitTest(t *testing.T) (gt *gitTest) {
	tmpdir, err := os.MkdirTemp("", "git-presubmit-test")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if gt == nil {
			os.RemoveAll(tmpdir)
		}
	}()

	repo := tmpdir + "/repo"
	mkdir(t, repo)
	write(t, repo+"/file", "this is master")
	write(t, repo+"/.gitattributes", "* -text\n")
	write(t, repo+"/"+ignoreFile, "")
	trun(t, repo, "git", "init", ".")
	trun(t, repo, "git", "config", "user.name", "gopher")
	trun(t, repo, "git", "config", "user.email", "gopher@example.com")
	trun(t, repo, "git", "add", "file", ".gitattributes", ignoreFile)
	trun(t, repo, "git", "commit", "-m", "on master")

	pwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(repo); err != nil {
		t.Fatal(err)
	}

	gt = &gitTest{
		pwd:    pwd,
		tmpdir: tmpdir,
		repo:   repo,
	}
	return gt
}

// stubFormatter writes a fake formatter script that records its
// arguments, prints output, and exits 0, and returns its path for use
// with -clang-format.
func (gt *gitTest) stubFormatter(t *testing.T, output string) string {
	if output != "" && !strings.HasSuffix(output, "\n") {
		output += "\n"
	}
	name := filepath.Join(gt.tmpdir, "stub-clang-format")
	writeScript(t, name, "#!/bin/sh\n"+
		"echo \"$@\" > '"+gt.formatterArgs()+"'\n"+
		"cat <<'EOF'\n"+output+"EOF\n")
	return name
}

// formatterArgs returns the file the stub formatter records its
// command line into.
func (gt *gitTest) formatterArgs() string {
	return filepath.Join(gt.tmpdir, "formatter-args")
}

// brokenFormatter writes a fake formatter script that fails.
func (gt *gitTest) brokenFormatter(t *testing.T) string {
	name := filepath.Join(gt.tmpdir, "broken-clang-format")
	writeScript(t, name, "#!/bin/sh\necho 'clang-format exploded' >&2\nexit 1\n")
	return name
}

func mkdir(t *testing.T, dir string) {
	if err := os.Mkdir(dir, 0777); err != nil {
		t.Fatal(err)
	}
}

func chdir(t *testing.T, dir string) {
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
}

func write(t *testing.T, file, data string) {
	if err := os.WriteFile(file, []byte(data), 0666); err != nil {
		t.Fatal(err)
	}
}

func writeScript(t *testing.T, file, data string) {
	write(t, file, data)
	if err := os.Chmod(file, 0755); err != nil {
		t.Fatal(err)
	}
}

func remove(t *testing.T, file string) {
	if err := os.RemoveAll(file); err != nil {
		t.Fatal(err)
	}
}

func read(t *testing.T, file string) string {
	b, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func trun(t *testing.T, dir string, cmdline ...string) string {
	cmd := exec.Command(cmdline[0], cmdline[1:]...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("in %s/, ran %s: %v\n%s", filepath.Base(dir), cmdline, err, out)
	}
	return string(out)
}

var (
	runLog     []string
	testStderr *bytes.Buffer
	testStdout *bytes.Buffer
	died       bool
)

var mainCanDie bool

func testMainDied(t *testing.T, args ...string) {
	mainCanDie = true
	testMain(t, args...)
	if !died {
		t.Fatalf("expected to die, did not\nstdout:\n%sstderr:\n%s", testStdout, testStderr)
	}
}

func testMain(t *testing.T, args ...string) {
	*noRun = false
	*verbose = 0

	t.Logf("git-presubmit %s", strings.Join(args, " "))

	canDie := mainCanDie
	mainCanDie = false // reset for next invocation

	defer func() {
		runLog = runLogTrap
		testStdout = stdoutTrap
		testStderr = stderrTrap

		dieTrap = nil
		runLogTrap = nil
		stdoutTrap = nil
		stderrTrap = nil
		if err := recover(); err != nil {
			if died && canDie {
				return
			}
			var msg string
			if died {
				msg = "died"
			} else {
				msg = fmt.Sprintf("panic: %v", err)
			}
			t.Fatalf("%s\nstdout:\n%sstderr:\n%s", msg, testStdout, testStderr)
		}
	}()

	dieTrap = func() {
		died = true
		panic("died")
	}
	died = false
	runLogTrap = []string{} // non-nil, to trigger saving of commands
	stdoutTrap = new(bytes.Buffer)
	stderrTrap = new(bytes.Buffer)

	os.Args = append([]string{"git-presubmit"}, args...)
	main()
}

func testRan(t *testing.T, cmds ...string) {
	if cmds == nil {
		cmds = []string{}
	}
	if !reflect.DeepEqual(runLog, cmds) {
		t.Errorf("ran:\n%s", strings.Join(runLog, "\n"))
		t.Errorf("wanted:\n%s", strings.Join(cmds, "\n"))
	}
}

func testPrinted(t *testing.T, buf *bytes.Buffer, name string, messages ...string) {
	all := buf.String()
	var errors bytes.Buffer
	for _, msg := range messages {
		if strings.HasPrefix(msg, "!") {
			if strings.Contains(all, msg[1:]) {
				fmt.Fprintf(&errors, "%s does (but should not) contain %q\n", name, msg[1:])
			}
			continue
		}
		if !strings.Contains(all, msg) {
			fmt.Fprintf(&errors, "%s does not contain %q\n", name, msg)
		}
	}
	if errors.Len() > 0 {
		t.Fatalf("wrong output\n%s%s:\n%s", &errors, name, all)
	}
}

func testPrintedStdout(t *testing.T, messages ...string) {
	testPrinted(t, testStdout, "stdout", messages...)
}

func testPrintedStderr(t *testing.T, messages ...string) {
	testPrinted(t, testStderr, "stderr", messages...)
}

func testNoStdout(t *testing.T) {
	if testStdout.Len() != 0 {
		t.Fatalf("unexpected stdout:\n%s", testStdout)
	}
}
