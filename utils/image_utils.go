package utils

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	gcsPublicPrefix       = "https://storage.googleapis.com/"
	firebaseStoragePrefix = "https://firebasestorage.googleapis.com/v0/b/"
)

// ExtractObjectPath returns the object path inside the bucket for a public
// image URL. Both the plain GCS form and the Firebase download form
// (.../v0/b/<bucket>/o/<escaped path>?alt=media) are accepted.
func ExtractObjectPath(rawURL string) (string, error) {
	switch {
	case strings.HasPrefix(rawURL, gcsPublicPrefix):
		path := strings.TrimPrefix(rawURL, gcsPublicPrefix)
		parts := strings.SplitN(path, "/", 2)
		if len(parts) != 2 || parts[1] == "" {
			return "", fmt.Errorf("invalid URL format")
		}
		return parts[1], nil

	case strings.HasPrefix(rawURL, firebaseStoragePrefix):
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		_, escaped, found := strings.Cut(u.EscapedPath(), "/o/")
		if !found || escaped == "" {
			return "", fmt.Errorf("invalid URL format")
		}
		return url.PathUnescape(escaped)
	}

	return "", fmt.Errorf("invalid URL")
}
