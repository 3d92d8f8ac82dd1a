package export

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DecodeDataURI splits a data URI into its media type and payload.
func DecodeDataURI(ref string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data URI has no payload")
	}

	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		text, err := url.PathUnescape(payload)
		if err != nil {
			return "", nil, fmt.Errorf("invalid data URI payload: %w", err)
		}
		return mediaType, []byte(text), nil
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some encoders drop the padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return "", nil, fmt.Errorf("invalid base64 payload: %w", err)
		}
	}
	return mediaType, data, nil
}

// EncodeDataURI wraps data in a base64 data URI, sniffing its media type.
func EncodeDataURI(data []byte) string {
	mediaType := mimetype.Detect(data).String()
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

type embeddedImage struct {
	data []byte
	kind string // fpdf image type
}

// loadImage resolves an image reference (data URI or local path) to bytes in a
// format the PDF writer can embed.
func loadImage(ref string) (embeddedImage, error) {
	var data []byte
	switch {
	case strings.HasPrefix(ref, "data:"):
		_, payload, err := DecodeDataURI(ref)
		if err != nil {
			return embeddedImage{}, err
		}
		data = payload
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return embeddedImage{}, fmt.Errorf("remote image references are not supported: %s", ref)
	default:
		payload, err := os.ReadFile(ref)
		if err != nil {
			return embeddedImage{}, fmt.Errorf("failed to read image: %w", err)
		}
		data = payload
	}

	mt := mimetype.Detect(data)
	switch {
	case mt.Is("image/jpeg"):
		return embeddedImage{data: data, kind: "JPG"}, nil
	case mt.Is("image/png"):
		return embeddedImage{data: data, kind: "PNG"}, nil
	case mt.Is("image/gif"):
		return embeddedImage{data: data, kind: "GIF"}, nil
	default:
		return embeddedImage{}, fmt.Errorf("unsupported image type %s", mt.String())
	}
}
