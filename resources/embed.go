// Package resources embeds the admin templates and the static assets so the
// binary can be deployed on its own.
package resources

import "embed"

//go:embed templates
var Templates embed.FS

//go:embed static
var Static embed.FS

// Placeholder is served when no default.jpg has been uploaded.
//
//go:embed static/img/placeholder.svg
var Placeholder []byte
