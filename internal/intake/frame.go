package intake

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	_ "image/png"

	"luxbyte/internal/domain"
)

// jpegQuality matches the compression the capture UI applies to camera frames.
const jpegQuality = 85

// decodeCameraFrame turns a base64 data-URL camera frame into a normalized
// JPEG payload. Whatever format the client captured in, the stored frame is
// re-encoded as JPEG so downstream slots see a consistent artifact. The size
// cap applies to the decoded frame bytes, before any image decoding runs.
func (c *Controller) decodeCameraFrame(ctx context.Context, dataURL, name string) (*RawFile, error) {
	payload, err := stripDataURL(dataURL)
	if err != nil {
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: frame is not valid base64", domain.ErrUnreadableImage)
	}
	if int64(len(raw)) > c.maxBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", domain.ErrFileTooLarge, c.maxBytes)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: frame could not be decoded", domain.ErrUnreadableImage)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("%w: frame could not be re-encoded", domain.ErrUnreadableImage)
	}

	return &RawFile{
		Name:        name + ".jpg",
		Size:        int64(buf.Len()),
		ContentType: "image/jpeg",
		Source:      SourceCamera,
		Data:        buf.Bytes(),
	}, nil
}

// stripDataURL extracts the base64 payload from a data URL of the form
// data:image/<fmt>;base64,<payload>. A bare base64 string is accepted too.
func stripDataURL(dataURL string) (string, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return dataURL, nil
	}
	idx := strings.IndexByte(dataURL, ',')
	if idx < 0 {
		return "", fmt.Errorf("%w: malformed data URL", domain.ErrUnreadableImage)
	}
	header := dataURL[:idx]
	if !strings.Contains(header, ";base64") {
		return "", fmt.Errorf("%w: data URL is not base64-encoded", domain.ErrUnreadableImage)
	}
	if !strings.HasPrefix(header, "data:image/") {
		return "", fmt.Errorf("%w: frame is not an image", domain.ErrUnreadableImage)
	}
	return dataURL[idx+1:], nil
}
