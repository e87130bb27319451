// Package assets holds the embedded browser front-end.
package assets

import "embed"

// IndexPath is the landing page inside Assets.
const IndexPath = "static/index.html"

//go:embed static css js
var Assets embed.FS
