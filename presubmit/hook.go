// Copyright 2025 The Sommelier Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
)

var hookFiles = []string{
	"pre-push",
}

// installHook installs the git hooks that run the format check on
// outgoing commits. An existing hook with different content is left
// alone and reported, so a hand-written hook is never overwritten.
func installHook() {
	hooksDir := gitPath("hooks")
	for _, hookFile := range hookFiles {
		filename := filepath.Join(hooksDir, hookFile)
		data, err := os.ReadFile(filename)
		if err == nil {
			if string(data) != hookScript {
				dief("hooks file %s already exists."+
					"\nTo install the %s hook, delete that"+
					" file and re-run `%s -install-hook`.",
					filename, hookFile, os.Args[0])
			}
			continue
		}
		if !os.IsNotExist(err) {
			dief("checking hook: %v", err)
		}

		verbosef("installing %s hook", hookFile)
		if _, err := os.Stat(hooksDir); os.IsNotExist(err) {
			verbosef("creating hooks directory %s", hooksDir)
			if makeChange() {
				if err := os.Mkdir(hooksDir, 0777); err != nil {
					dief("creating hooks directory: %v", err)
				}
			}
		}
		if makeChange() {
			if err := os.WriteFile(filename, []byte(hookScript), 0700); err != nil {
				dief("writing hook: %v", err)
			}
		}
	}
}

// The zero hash stands in for a ref being created or deleted.
var hookScript = `#!/bin/sh
# git-presubmit pre-push hook: check formatting of outgoing commits.
z40=0000000000000000000000000000000000000000
while read local_ref local_sha remote_ref remote_sha; do
	if [ "$local_sha" = "$z40" ]; then
		continue
	fi
	if [ "$remote_sha" = "$z40" ]; then
		range="$local_sha --not --remotes"
	else
		range="$remote_sha..$local_sha"
	fi
	for commit in $(git rev-list --min-parents=1 $range); do
		git-presubmit -commit "$commit" || exit 1
	done
done
exit 0
`
