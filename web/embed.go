package web

import "embed"

// TemplatesFS holds the HTML document templates.
//
//go:embed templates/*.html
var TemplatesFS embed.FS
