package dashboards

import "strings"

// StripBaseFromURL removes the Grafana sub path appSubURL from the front of
// url. When appSubURL ends with a slash, that slash stays on the result.
func StripBaseFromURL(appSubURL, url string) string {
	if url == "" || !strings.HasPrefix(url, appSubURL) {
		return url
	}

	cut := len(appSubURL)
	if strings.HasSuffix(appSubURL, "/") {
		cut--
	}
	return url[cut:]
}
