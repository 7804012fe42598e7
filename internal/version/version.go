package version

// Overridden by -ldflags at release build time.
var (
	GitTag    = "unknown"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
