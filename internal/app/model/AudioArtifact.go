package model

import (
	"path/filepath"
	"strings"
)

// AudioArtifact is an audio file on local disk together with its container tag (m4a, wav, ...).
type AudioArtifact struct {
	Path   string
	Format string
	Size   int64
}

// FormatFromName derives a lower-case container tag from a file name, without the dot.
func FormatFromName(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}
