package helpers

import (
	"net/url"
	"path"

	"golang.org/x/exp/slices"
)

var httpSchemes = []string{"http", "https"}

// UrlJoin appends path elements to a base URL, keeping query and fragment
// intact.
func UrlJoin(baseUrl string, elem ...string) (string, error) {
	u, err := url.Parse(baseUrl)
	if err != nil {
		return "", err
	}

	if len(elem) > 0 {
		elem = append([]string{u.Path}, elem...)
		u.Path = path.Join(elem...)
	}

	return u.String(), nil
}

// IsValidHttpUrl reports whether rawUrl is an absolute http or https URL.
func IsValidHttpUrl(rawUrl string) bool {
	u, err := url.ParseRequestURI(rawUrl)
	if err != nil {
		return false
	}

	return slices.Contains(httpSchemes, u.Scheme) && u.Host != ""
}
