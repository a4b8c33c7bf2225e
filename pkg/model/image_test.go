package model

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImageDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("image-bytes"))

	tests := []struct {
		name     string
		input    string
		wantMIME string
	}{
		{"png data URI", "data:image/png;base64," + payload, "image/png"},
		{"jpeg data URI", "data:image/jpeg;base64," + payload, "image/jpeg"},
		{"unknown type defaults to jpeg", "data:application/octet-stream;base64," + payload, "image/jpeg"},
		{"bare base64 defaults to jpeg", payload, "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := ParseImageDataURI(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMIME, img.MIMEType)
			assert.Equal(t, []byte("image-bytes"), img.Data)
		})
	}
}

func TestParseImageDataURI_URLSafeFallback(t *testing.T) {
	raw := []byte{0xfb, 0xff, 0xbf, 0x01}
	payload := base64.URLEncoding.EncodeToString(raw)

	img, err := ParseImageDataURI(payload)
	require.NoError(t, err)
	assert.Equal(t, raw, img.Data)
}

func TestParseImageDataURI_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"data URI without comma", "data:image/png;base64"},
		{"invalid base64", "data:image/jpeg;base64,!!!not-base64!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseImageDataURI(tt.input)
			assert.Error(t, err)
		})
	}
}
