// Package contracts holds the versioned surface of wrangle: the binary
// release and the layout of the cleaned tables it writes.
package contracts

import (
	"fmt"
	"runtime"
)

// Version is the release of the wrangle binary
const Version = "1.0.0"

// SchemaVersion names the layout of the cleaned log and property tables. It
// changes when a column is added, removed or retyped.
const SchemaVersion = "v1"

// Commit is the source revision, set at link time with
// -ldflags "-X wranglecli/pkg/contracts.Commit=<sha>"
var Commit = "unknown"

// VersionString describes the binary for --version
func VersionString() string {
	return fmt.Sprintf("%s (schema %s, commit %s, %s %s/%s)",
		Version, SchemaVersion, Commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
