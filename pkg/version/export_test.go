package version

import "runtime/debug"

// SetBuildInfoReader replaces the build info source and returns a restore func
func SetBuildInfoReader(fn func() (*debug.BuildInfo, bool)) func() {
	prev := readBuildInfo
	readBuildInfo = fn
	return func() { readBuildInfo = prev }
}
