package methodology

import "embed"

// presetFS contains the methodology definitions bundled with the vaultlint binary.
//
//go:embed presets/*.yaml
var presetFS embed.FS
