package models

import "net/url"

// URLCount is one row of the backend's top-paths summary.
type URLCount struct {
	URL   string `json:"url"`
	Count int64  `json:"count"`
}

// Host returns the host part of the URL, or "" when it is not absolute.
func (u URLCount) Host() string {
	host, _ := SplitURL(u.URL)
	return host
}

// Path returns the path and query of the URL.
func (u URLCount) Path() string {
	_, path := SplitURL(u.URL)
	return path
}

// SplitURL splits an absolute URL into its host and its path plus query.
// Anything that is not an absolute URL comes back as ("", raw).
func SplitURL(raw string) (host, path string) {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return "", raw
	}

	path = u.EscapedPath()
	if u.Opaque != "" {
		path = u.Opaque
	}
	if path == "" && u.Host != "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	return u.Host, path
}
