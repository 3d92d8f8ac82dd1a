package export_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/casebook/pkg/core"
	"github.com/aretw0/casebook/pkg/export"
)

var generated = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func sampleCase() core.Case {
	return core.Case{
		ID:              "c1",
		OwnerID:         "u1",
		Name:            "Kitchen  scene 1",
		DetectedObjects: []string{"cup", "table"},
		Description:     "A cup on a table.",
		CreatedAt:       time.Date(2024, 5, 31, 8, 30, 0, 0, time.UTC),
	}
}

func pngDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		img.SetGray(x, 10, color.Gray{Y: 200})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return export.EncodeDataURI(buf.Bytes())
}

func TestPlainText(t *testing.T) {
	c := sampleCase()
	want := strings.Join([]string{
		"CASE REPORT",
		"Case: Kitchen  scene 1",
		"Date: 2024-05-31 08:30:00 UTC",
		"Generated: 2024-06-01 12:00:00 UTC",
		strings.Repeat("-", 40),
		"Description:",
		"A cup on a table.",
		strings.Repeat("-", 40),
		"Detected Objects (2):",
		"1. cup",
		"2. table",
		"",
	}, "\n")

	assert.Equal(t, want, export.PlainText(c, generated))
}

func TestPlainText_IsPure(t *testing.T) {
	c := sampleCase()
	assert.Equal(t, export.PlainText(c, generated), export.PlainText(c, generated))
	assert.NotContains(t, export.PlainText(c, time.Time{}), "Generated:")
}

func TestPlainText_Placeholders(t *testing.T) {
	c := sampleCase()
	c.DetectedObjects = nil
	c.Description = " "

	text := export.PlainText(c, generated)
	assert.Contains(t, strings.Split(text, "\n"), "No objects detected")
	assert.Contains(t, text, "No description available")
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name, ext, want string
	}{
		{"Kitchen  scene 1", "pdf", "Kitchen_scene_1.pdf"},
		{" padded\tname ", ".txt", "_padded_name_.txt"},
		{"a/b", "txt", "a_b.txt"},
		{"", "pdf", "case.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, export.Filename(tt.name, tt.ext))
		})
	}
}

func TestDocument(t *testing.T) {
	t.Run("Without Image", func(t *testing.T) {
		data, err := export.Document(sampleCase(), generated)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	})

	t.Run("Empty Case Still Renders", func(t *testing.T) {
		data, err := export.Document(core.Case{}, time.Time{})
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	})

	t.Run("With Embedded Image", func(t *testing.T) {
		c := sampleCase()
		c.ImageRef = pngDataURI(t)

		withImage, err := export.Document(c, generated)
		require.NoError(t, err)

		plain, err := export.Document(sampleCase(), generated)
		require.NoError(t, err)
		assert.Greater(t, len(withImage), len(plain))
	})

	t.Run("Image From Path", func(t *testing.T) {
		_, raw, err := export.DecodeDataURI(pngDataURI(t))
		require.NoError(t, err)
		path := filepath.Join(t.TempDir(), "scene.png")
		require.NoError(t, os.WriteFile(path, raw, 0644))

		c := sampleCase()
		c.ImageRef = path
		_, err = export.Document(c, generated)
		require.NoError(t, err)
	})

	t.Run("Undecodable Image Fails", func(t *testing.T) {
		for _, ref := range []string{
			"data:image/png;base64,!!!not-base64!!!",
			"data:text/plain;base64,aGVsbG8=",
			"https://example.com/scene.jpg",
		} {
			c := sampleCase()
			c.ImageRef = ref
			data, err := export.Document(c, generated)
			assert.ErrorIs(t, err, core.ErrExport, ref)
			assert.Nil(t, data)
		}
	})
}

func TestDetectionDocument(t *testing.T) {
	data, err := export.DetectionDocument(core.Detection{Description: "room"}, "", generated)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestDataURI(t *testing.T) {
	uri := export.EncodeDataURI([]byte("hello"))
	assert.True(t, strings.HasPrefix(uri, "data:text/plain"))

	mediaType, data, err := export.DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Contains(t, mediaType, "text/plain")

	_, data, err = export.DecodeDataURI("data:,a%20b")
	require.NoError(t, err)
	assert.Equal(t, "a b", string(data))

	_, _, err = export.DecodeDataURI("nope")
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, export.Filename("Case A", "txt"))

	require.NoError(t, export.WriteFile(path, []byte("report")))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "report", string(got))

	err = export.WriteFile(filepath.Join(dir, "missing", "x.txt"), []byte("x"))
	assert.ErrorIs(t, err, core.ErrExport)
}
