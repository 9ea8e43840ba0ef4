package utils

import (
	"net/url"
	"strings"
)

// NormalizeURL strips a trailing slash from the path part of a URL while
// leaving any query string untouched. The gateway endpoint must not end
// with a slash before query parameters are appended.
func NormalizeURL(rawURL string) string {
	parts := strings.SplitN(rawURL, "?", 2)
	parts[0] = strings.TrimSuffix(parts[0], "/")
	return strings.Join(parts, "?")
}

// AddParamsToURL merges the given parameters into the query string of a
// URL, preserving any parameters already present. Existing keys are
// overwritten.
func AddParamsToURL(rawURL string, params map[string]string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	query := parsed.Query()
	for k, v := range params {
		query.Set(k, v)
	}
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}
