// Package media recognises the image formats accepted for item photos.
package media

import (
	"errors"
	"net/http"
	"strings"
)

// SniffLen is the number of leading bytes inspected by Detect.
const SniffLen = 512

var ErrUnsupportedImage = errors.New("unsupported image type, use jpeg, png, gif or webp")

type Format struct {
	Ext  string
	MIME string
}

var accepted = map[string]Format{
	"image/jpeg": {Ext: "jpg", MIME: "image/jpeg"},
	"image/png":  {Ext: "png", MIME: "image/png"},
	"image/gif":  {Ext: "gif", MIME: "image/gif"},
	"image/webp": {Ext: "webp", MIME: "image/webp"},
}

// Detect identifies the image format from the leading bytes of a file.
func Detect(head []byte) (Format, error) {
	if len(head) == 0 {
		return Format{}, ErrUnsupportedImage
	}
	if len(head) > SniffLen {
		head = head[:SniffLen]
	}
	format, ok := accepted[http.DetectContentType(head)]
	if !ok {
		return Format{}, ErrUnsupportedImage
	}
	return format, nil
}

// DeclaredType returns the media type of a Content-Type header value without
// parameters.
func DeclaredType(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
