// ============================================================================
// oil - notation toolkit
// ============================================================================
//
// Package:     version
// Description: Central version management for the toolkit components
// Author:      Mike Stoffels with Claude
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants for all oil components
const (
	// Toolkit version
	Toolkit = "0.2.0"

	// Component versions
	Parser  = "0.2.0"
	Service = "0.1.0"
	CLI     = "0.2.0"
	REPL    = "0.1.0"

	// Notation is the version of the oil notation the parser accepts
	Notation = "1.0.0"
)

// Set at build time with -ldflags "-X github.com/msto63/oil/pkg/core/version.Commit=..."
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "parser":
		return Parser
	case "service", "oild":
		return Service
	case "cli", "oil":
		return CLI
	case "repl":
		return REPL
	case "notation":
		return Notation
	default:
		return Toolkit
	}
}

// Info returns a one-line build description
func Info() string {
	return fmt.Sprintf("oil %s (parser %s, notation %s) commit %s built %s %s/%s",
		Toolkit, Parser, Notation, Commit, BuildDate, runtime.GOOS, runtime.GOARCH)
}
