package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/go-errors/errors"

	"github.com/kpcyrd/sn0int/pkg/cmd"
)

const defaultVersion = "unversioned"

var (
	commit  string
	version = defaultVersion
	date    string
)

func main() {
	updateBuildInfo()

	app := cmd.NewApp(versionString())
	root := cmd.NewRootCommand(app)

	err := root.Execute()
	app.Close()
	if err == nil {
		return
	}

	if isUsageError(err) {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(2)
	}

	wrapped := errors.Wrap(err, 0)
	stackTrace := wrapped.ErrorStack()
	if app.Log != nil {
		app.Log.Error(stackTrace)
	}
	log.Fatalf("%s\n\n%s", err, stackTrace)
}

// versionString prints a multi-line version banner including OS/arch,
// reported here via `sn0int --version` rather than as a standalone flag.
func versionString() string {
	return fmt.Sprintf(
		"%s\nDate: %s\nCommit: %s\nOS: %s\nArch: %s",
		version, date, commit, runtime.GOOS, runtime.GOARCH,
	)
}

// updateBuildInfo fills in commit/date from the Go module's embedded VCS
// stamp when no version was set at link time (`-ldflags -X`).
func updateBuildInfo() {
	if version != defaultVersion {
		return
	}
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			commit = setting.Value
			if len(commit) > 7 {
				version = commit[:7]
			} else {
				version = commit
			}
		case "vcs.time":
			date = setting.Value
		}
	}
}

// isUsageError classifies a cobra error as an argument/usage mistake
// (exit code 2) rather than a runtime failure (exit code 1), matching
// the prefixes cobra's own Args validators and command resolver use.
func isUsageError(err error) bool {
	msg := err.Error()
	prefixes := []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"invalid argument",
		"accepts ",
		"requires ",
		"expected ",
	}
	for _, p := range prefixes {
		if strings.HasPrefix(msg, p) {
			return true
		}
	}
	return false
}
