package intake

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"go.uber.org/zap"

	"luxbyte/internal/domain"
	"luxbyte/pkg/logger"
)

// Request carries the acquisition inputs for one document slot. A client that
// captured a live camera frame sends it as a base64 data URL; a client that
// used the native file picker sends a multipart part. Both may be present, in
// which case the frame wins and the part is the fallback.
type Request struct {
	SlotID      string
	CameraFrame string
	File        multipart.File
	Header      *multipart.FileHeader
}

// Controller acquires a document payload from a request, preferring the
// camera frame and falling back to the picked file. Acquisition is
// cancellable and releases every underlying reader on every exit path.
type Controller struct {
	maxBytes int64
}

// NewController creates a Controller that refuses to buffer payloads larger
// than maxBytes.
func NewController(maxBytes int64) *Controller {
	return &Controller{maxBytes: maxBytes}
}

// Acquire resolves the request to a buffered payload. A dismissed acquisition
// (no frame, no file) and a canceled context both resolve to (nil, nil); the
// caller treats that as "no file", not an error. A camera frame that cannot
// be decoded falls back to the picked file when one is present; only when
// there is nothing to fall back to does the decode error surface.
func (c *Controller) Acquire(ctx context.Context, req Request) (*RawFile, error) {
	// The picker part is released no matter which path resolves the request.
	if req.File != nil {
		defer func() { _ = req.File.Close() }()
	}

	if ctx.Err() != nil {
		return nil, nil
	}

	if req.CameraFrame != "" {
		rf, err := c.decodeCameraFrame(ctx, req.CameraFrame, req.SlotID)
		if err == nil {
			return rf, nil
		}
		if ctx.Err() != nil {
			return nil, nil
		}
		if req.File == nil {
			return nil, err
		}
		logger.Warn("camera frame unusable, falling back to picked file",
			zap.String("slot", req.SlotID), zap.Error(err))
	}

	if req.File == nil {
		return nil, nil
	}
	return c.readPicked(req)
}

func (c *Controller) readPicked(req Request) (*RawFile, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(req.File, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading picked file: %w", err)
	}
	if n > c.maxBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", domain.ErrFileTooLarge, c.maxBytes)
	}

	name := "upload"
	contentType := ""
	if req.Header != nil {
		if req.Header.Filename != "" {
			name = req.Header.Filename
		}
		contentType = req.Header.Header.Get("Content-Type")
	}

	return &RawFile{
		Name:        name,
		Size:        n,
		ContentType: contentType,
		Source:      SourcePicker,
		Data:        buf.Bytes(),
	}, nil
}
