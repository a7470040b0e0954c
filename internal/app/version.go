package app

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"slices"
)

// Build metadata, set with -ldflags "-X github.com/agbru/fibwasm/internal/app.Version=...".
var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)

// HasVersionFlag reports whether args request the version. It runs before
// flag parsing so --version works alongside otherwise invalid flags.
func HasVersionFlag(args []string) bool {
	return slices.ContainsFunc(args, func(a string) bool {
		return a == "--version" || a == "-version" || a == "-V"
	})
}

// PrintVersion writes the version banner to out.
func PrintVersion(out io.Writer) {
	commit := Commit
	if commit == "" {
		commit = vcsRevision()
	}
	fmt.Fprintf(out, "fibwasm %s\n", Version)
	if commit != "" {
		fmt.Fprintf(out, "  commit: %s\n", commit)
	}
	if BuildDate != "" {
		fmt.Fprintf(out, "  built:  %s\n", BuildDate)
	}
	fmt.Fprintf(out, "  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}
