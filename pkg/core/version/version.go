// ============================================================================
// relox - Lox expression interpreter
// ============================================================================
//
// Package:     version
// Description: Central version management for the CLI and the service
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants for all relox components
const (
	// Product version
	Product = "0.1.0"

	// Component versions
	Interpreter = "0.1.0"
	Server      = "0.1.0"

	// Protocol is the gRPC package the server registers
	Protocol = "relox.v1"
)

// Set through -ldflags "-X github.com/themifi/relox/pkg/core/version.Commit=..."
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// ServiceVersion returns the version for a given component name
func ServiceVersion(name string) string {
	switch name {
	case "interpreter", "lox":
		return Interpreter
	case "server", "relox-server":
		return Server
	default:
		return Product
	}
}

// Info describes the running binary
type Info struct {
	Version   string `json:"version"`
	Protocol  string `json:"protocol"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns build information for the running binary
func Get() Info {
	return Info{
		Version:   Product,
		Protocol:  Protocol,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the one-line form printed by `relox version`
func (i Info) String() string {
	return fmt.Sprintf("relox %s (%s, commit %s, built %s, %s %s)",
		i.Version, i.Protocol, i.Commit, i.BuildDate, i.GoVersion, i.Platform)
}
