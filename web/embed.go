// Package web holds the embedded HTML templates for the application screens.
package web

import "embed"

//go:embed templates/*.html
var TemplateFiles embed.FS
