package common

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	devVersion = "dev"
	unknown    = "unknown"
)

// Set at build time with -ldflags "-X github.com/bobmcallan/volc-mcp/internal/common.Version=...".
var (
	Version   = devVersion
	Build     = unknown
	GitCommit = unknown
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit"`
}

// Info returns the current build information.
func Info() BuildInfo {
	return BuildInfo{Version: Version, Build: Build, Commit: GitCommit}
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", b.Version, b.Build, b.Commit)
}

// UserAgent is sent on every outbound Volcengine request.
func UserAgent() string {
	return "volc-mcp/" + Version
}

// LoadBuildInfo fills values the linker did not set, first from a .version
// file next to the binary, then from the VCS stamp of `go build`.
func LoadBuildInfo() {
	if exe, err := os.Executable(); err == nil {
		loadVersionFile(filepath.Join(filepath.Dir(exe), ".version"))
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		applyModuleInfo(bi)
	}
}

func loadVersionFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, val, ok := strings.Cut(scanner.Text(), ":")
		if !ok || strings.HasPrefix(strings.TrimSpace(key), "#") {
			continue
		}
		val = strings.TrimSpace(val)
		switch strings.TrimSpace(key) {
		case "version":
			fillUnset(&Version, devVersion, val)
		case "build":
			fillUnset(&Build, unknown, val)
		case "commit":
			fillUnset(&GitCommit, unknown, val)
		}
	}
}

func applyModuleInfo(bi *debug.BuildInfo) {
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		fillUnset(&Version, devVersion, v)
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if len(s.Value) > 7 {
				s.Value = s.Value[:7]
			}
			fillUnset(&GitCommit, unknown, s.Value)
		case "vcs.time":
			fillUnset(&Build, unknown, s.Value)
		}
	}
}

func fillUnset(target *string, placeholder, val string) {
	if *target == placeholder && val != "" {
		*target = val
	}
}
