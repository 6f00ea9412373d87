// Package conf contains the version constants and the configuration that are
// used across packages.
package conf

import (
	"fmt"
	"time"
)

const (
	// APPNAME is the name of the binary and the prefix of temp files.
	APPNAME = "luafcheck"
	// VERSION is the version of the luafcheck application.
	VERSION = "luafcheck 0.1.0"
	// VERSIONMAJORN is the major version.
	VERSIONMAJORN = 0
	// VERSIONMINORN is the minor version.
	VERSIONMINORN = 1
	// VERSIONPATCHN is the patch version.
	VERSIONPATCHN = 0
	// MAXSOURCESIZE is the largest source the playground will accept.
	MAXSOURCESIZE = 1 << 20
	// MAXOUTPUTSIZE is the most output kept from a single execution.
	MAXOUTPUTSIZE = 1 << 20
)

// FullVersion returns the version and copyright.
func FullVersion() string {
	return fmt.Sprintf("%v Copyright (C) %v", VERSION, time.Now().Year())
}

// Copyright is the copyright to be written out in the CLI.
func Copyright() string {
	return fmt.Sprintf("Copyright (C) %v", time.Now().Year())
}
