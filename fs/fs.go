// Package appfs embeds files required at runtime (DB migrations).
package appfs

import "embed"

//go:embed migrations
var FS embed.FS
