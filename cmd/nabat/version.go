package main

import "github.com/blang/semver"

var (
	progVersion = semver.Version{
		Major: 0,
		Minor: 3,
		Patch: 0,
	}

	buildVersion string
)

func init() {
	if buildVersion != "" {
		progVersion.Build = []string{
			buildVersion,
		}
	}
}
