// Package templates provides embedded YAML configuration templates.
package templates

import _ "embed"

// ConfigYAML contains the default config.yaml template written to
// the config directory on first run.
//
//go:embed config.yaml
var ConfigYAML string
