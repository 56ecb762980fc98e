package yappr

import (
	"fmt"
	"runtime"
)

// Build metadata, overridden at link time.
var (
	CurrentVersion = "0.1.0"
	CurrentBranch  = "unknown"
	CurrentCommit  = "unknown"
	BuildDate      = "unknown"
	Platform       = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
	GoVersion      = runtime.Version()
)
