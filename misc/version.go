// Package misc provides build time program identification, values are
// expected to be overwritten by the linker via -ldflags -X.
package misc

var (
	appName = "fxu"
	version = "development"
	gitHash = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
