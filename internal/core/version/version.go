// Package version reports the build stamped into lectern binaries
package version

// BuildInfo is returned by GET /meta/version
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information for service
// Set with -ldflags "-X 'lectern/internal/core/version.version=v0.1.0' -X 'lectern/internal/core/version.commit=abcd'"
func Info(service string) BuildInfo {
	if service == "" {
		service = "lectern-api"
	}
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
