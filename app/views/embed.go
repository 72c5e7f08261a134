// Package views embeds the storefront's HTML templates.
package views

import "embed"

//go:embed *.html
var FS embed.FS
