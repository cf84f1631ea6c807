package core

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// ErrNotDataURI is returned by DecodeDataURI for values that are not data URIs
// (the seeded samples reference remote images, for example).
var ErrNotDataURI = errors.New("not a data URI")

// DownloadName returns the file name offered when downloading a note's full
// image: the title with the extension of the original file, or "jpg" when
// the original name is unknown or has no extension.
func DownloadName(n Note) string {
	ext := strings.TrimPrefix(filepath.Ext(n.FileName), ".")
	if ext == "" {
		ext = "jpg"
	}
	title := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, strings.TrimSpace(n.Title))
	if title == "" {
		title = n.ID
	}
	return title + "." + ext
}

// EncodeDataURI builds a base64 data URI.
func EncodeDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI splits a data URI into its payload and media type.
// Both base64 and percent-encoded payloads are supported.
func DecodeDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", ErrNotDataURI
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("core.DecodeDataURI: missing payload separator")
	}

	mime, isBase64 := strings.CutSuffix(header, ";base64")
	if mime == "" {
		mime = "text/plain;charset=US-ASCII"
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("core.DecodeDataURI: %w", err)
		}
		return data, mime, nil
	}

	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return nil, "", fmt.Errorf("core.DecodeDataURI: %w", err)
	}
	return []byte(unescaped), mime, nil
}
