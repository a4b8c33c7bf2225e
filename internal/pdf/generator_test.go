package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fasalrakshak/backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSanitize_FillsDefaults(t *testing.T) {
	out := sanitize(model.ReportInput{})

	assert.Equal(t, "N/A", out.ReportID)
	assert.Equal(t, "Unknown", out.Plant)
	assert.Equal(t, "No disease detected", out.Disease)
	assert.Equal(t, "Medium", out.Severity)
	assert.Equal(t, "Plant disease analysis", out.Description)
	assert.Equal(t, 0.0, out.Confidence)
}

func TestSanitize_KeepsProvidedValues(t *testing.T) {
	out := sanitize(model.ReportInput{
		ReportID:    "PD-2026-XY12",
		Plant:       "Tomato",
		Disease:     "Early Blight",
		Severity:    "High",
		Description: "Concentric rings on lower leaves.",
		Confidence:  87.4,
	})

	assert.Equal(t, "Tomato", out.Plant)
	assert.Equal(t, "Early Blight", out.Disease)
	assert.Equal(t, "High", out.Severity)
	assert.Equal(t, 87.0, out.Confidence)
}

func TestSanitize_ClampsConfidence(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-10, 0},
		{0, 0},
		{49.5, 50},
		{100, 100},
		{250, 100},
	}

	for _, tt := range tests {
		out := sanitize(model.ReportInput{Confidence: tt.in})
		assert.Equal(t, tt.want, out.Confidence, "confidence %v", tt.in)
	}
}

func TestNewGenerator_MissingAssets(t *testing.T) {
	_, err := NewGenerator(Assets{
		LogoPath:           filepath.Join(t.TempDir(), "missing.png"),
		DevanagariFontPath: filepath.Join(t.TempDir(), "missing.ttf"),
	}, "https://fasalrakshak.com", zap.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "report asset unavailable")
}

// writeTestLogo writes a small valid PNG into dir
func writeTestLogo(t *testing.T, dir string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: 46, G: 125, B: 50, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// findSystemTTF locates any TrueType font on the host. Rendering tests skip
// when the host has none.
func findSystemTTF(t *testing.T) string {
	t.Helper()

	roots := []string{
		"/usr/share/fonts",
		"/usr/local/share/fonts",
		"/Library/Fonts",
		"/System/Library/Fonts",
	}

	for _, root := range roots {
		var found string
		_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil || found != "" {
				return filepath.SkipAll
			}
			if !info.IsDir() && strings.HasSuffix(strings.ToLower(path), ".ttf") {
				found = path
				return filepath.SkipAll
			}
			return nil
		})
		if found != "" {
			return found
		}
	}

	t.Skip("no TrueType font available on this host")
	return ""
}

func TestGenerate_ProducesBilingualPDF(t *testing.T) {
	dir := t.TempDir()
	assets := Assets{
		LogoPath:           writeTestLogo(t, dir),
		DevanagariFontPath: findSystemTTF(t),
	}

	gen, err := NewGenerator(assets, "https://fasalrakshak.com", zap.NewNop())
	require.NoError(t, err)

	data, err := gen.Generate(model.ReportInput{
		ReportID:    "PD-2026-TEST",
		Date:        "01/09/2026",
		Plant:       "Tomato",
		Disease:     "Early Blight",
		Confidence:  92,
		Severity:    "High",
		Description: "Dark concentric spots on the lower leaves spreading upward.",
		Recommendations: []string{
			"Remove infected plant parts",
			"Apply recommended fungicide",
			"Avoid overhead irrigation",
		},
	})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output is not a PDF")
	assert.Greater(t, len(data), 1000)
}

func TestGenerate_LongRecommendationsSpanPages(t *testing.T) {
	dir := t.TempDir()
	assets := Assets{
		LogoPath:           writeTestLogo(t, dir),
		DevanagariFontPath: findSystemTTF(t),
	}

	gen, err := NewGenerator(assets, "https://fasalrakshak.com", zap.NewNop())
	require.NoError(t, err)

	recs := make([]string, 60)
	for i := range recs {
		recs[i] = strings.Repeat("Inspect the crop canopy for new lesions and document progression. ", 3)
	}

	data, err := gen.Generate(model.ReportInput{
		ReportID:        "PD-2026-LONG",
		Plant:           "Potato",
		Disease:         "Late Blight",
		Confidence:      78,
		Recommendations: recs,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestGenerate_InvalidScanImageIsDropped(t *testing.T) {
	dir := t.TempDir()
	assets := Assets{
		LogoPath:           writeTestLogo(t, dir),
		DevanagariFontPath: findSystemTTF(t),
	}

	gen, err := NewGenerator(assets, "https://fasalrakshak.com", zap.NewNop())
	require.NoError(t, err)

	data, err := gen.Generate(model.ReportInput{
		ReportID: "PD-2026-IMG",
		Image:    "data:image/jpeg;base64,%%%garbage%%%",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
