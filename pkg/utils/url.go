package utils

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned by ValidateSiteURL for anything that is not an
// absolute http or https URL with a host.
var ErrInvalidURL = errors.New("invalid URL: must be a valid http or https URL")

// ValidateSiteURL checks that raw is an absolute http(s) URL and returns it
// with surrounding whitespace removed. The generation service applies the
// same rule, so checking locally avoids a round trip for obvious typos.
func ValidateSiteURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidURL
	}
	if u.Host == "" {
		return "", ErrInvalidURL
	}
	return raw, nil
}
