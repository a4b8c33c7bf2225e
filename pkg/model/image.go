package model

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// InlineImage is a decoded image payload ready for an upstream request
type InlineImage struct {
	MIMEType string
	Data     []byte
}

// IsPNG reports whether the payload was declared as PNG
func (i InlineImage) IsPNG() bool {
	return i.MIMEType == "image/png"
}

// ParseImageDataURI decodes a base64 image, accepting both bare base64 and
// data: URIs. The content type is inferred from the URI prefix: PNG when the
// prefix says so, JPEG otherwise.
func ParseImageDataURI(s string) (InlineImage, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return InlineImage{}, fmt.Errorf("empty image payload")
	}

	mimeType := "image/jpeg"
	payload := s
	if strings.HasPrefix(s, "data:") {
		idx := strings.IndexByte(s, ',')
		if idx < 0 {
			return InlineImage{}, fmt.Errorf("malformed data URI")
		}
		if strings.Contains(s[:idx], "png") {
			mimeType = "image/png"
		}
		payload = s[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// URL-safe alphabet as a fallback, some clients produce it
		data, err = base64.URLEncoding.DecodeString(payload)
		if err != nil {
			return InlineImage{}, fmt.Errorf("invalid base64 image payload: %w", err)
		}
	}

	return InlineImage{MIMEType: mimeType, Data: data}, nil
}
