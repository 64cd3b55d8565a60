package handlers

import "net/url"

// AssetPrefix is where path images are served.
const AssetPrefix = "/assets/paths/"

// AssetURL returns the public URL of a path image.
func AssetURL(name string) string {
	return AssetPrefix + url.PathEscape(name)
}
