// Package version carries the build version, set with
// -ldflags "-X panelsync/internal/shared/version.Version=v1.2.3".
package version

import "strings"

var (
	Version = "dev"
	Commit  = ""
)

// String returns the version with the short commit appended when known.
func String() string {
	if Commit == "" {
		return Version
	}
	commit := strings.TrimSpace(Commit)
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return Version + "+" + commit
}
