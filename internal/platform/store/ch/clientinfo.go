package ch

import (
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo describes this process to the server (visible in system.query_log)
// role examples: "api", "warm"
func BuildClientInfo(name, role string) clickhouse.ClientInfo {
	if name = strings.TrimSpace(name); name == "" {
		name = "lectern"
	}
	host, _ := os.Hostname()
	type product = struct{ Name, Version string }
	return clickhouse.ClientInfo{Products: []product{
		{Name: name, Version: strings.TrimSpace(role)},
		{Name: "go", Version: runtime.Version()},
		{Name: "commit", Version: vcsShortSHA()},
		{Name: "host", Version: strings.TrimSpace(host)},
	}}
}

func vcsShortSHA() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return "unknown"
}
