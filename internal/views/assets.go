package views

import (
	"path"
	"strings"

	"github.com/a-h/templ"
)

// AssetsPrefix is the URL prefix of theme assets.
const AssetsPrefix = "/assets/"

// Asset returns the public URL of a file in a theme's asset directory.
func Asset(theme, file string) string {
	return AssetsPrefix + theme + "/" + strings.TrimLeft(path.Clean("/"+file), "/")
}

// AssetTag links an asset by extension: stylesheets, scripts, and images.
// Other files become a plain link.
func AssetTag(theme, file string) templ.Component {
	u := Asset(theme, file)
	return component(func(h *htmlWriter) {
		switch strings.ToLower(path.Ext(file)) {
		case ".css":
			h.raw(`<link rel="stylesheet"`)
			h.href(u)
			h.raw(">")
		case ".js":
			h.raw(`<script defer`)
			h.attr("src", u)
			h.raw("></script>")
		case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico":
			h.raw("<img")
			h.attr("src", u)
			h.raw(` alt="">`)
		default:
			h.raw("<a")
			h.href(u)
			h.raw(">")
			h.text(path.Base(file))
			h.raw("</a>")
		}
	})
}
