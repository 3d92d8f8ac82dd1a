package casebook

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the release of the library and CLI.
var Version = strings.TrimSpace(rawVersion)
