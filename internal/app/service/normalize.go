package service

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/purell"
)

const maxURLLength = 2048

const normalizeFlags = purell.FlagsSafe | purell.FlagRemoveDotSegments

// normalizeURL canonicalizes raw so equal targets share one short link.
// A missing scheme defaults to https and only http(s) URLs with a host are
// accepted.
func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", invalidInput("URL must not be empty")
	}
	if len(raw) > maxURLLength {
		return "", invalidInput("URL must not be longer than 2048 characters")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", invalidInput("URL is not valid")
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", invalidInput("Only http and https URLs can be shortened")
	}

	if u.Hostname() == "" {
		return "", invalidInput("URL must have a host")
	}

	if u.Path == "" && u.Opaque == "" {
		u.Path = "/"
	}

	return purell.NormalizeURL(u, normalizeFlags), nil
}
