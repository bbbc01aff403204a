// Package assets bundles static files shipped with the backend binaries.
package assets

import "embed"

// The _base layouts are named explicitly: directory patterns skip
// underscore-prefixed files.
//
//go:embed templates/email templates/email/_base.txt templates/email/_base.gohtml
//go:embed common-passwords.txt
var FS embed.FS
