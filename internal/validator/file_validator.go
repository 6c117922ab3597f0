package validator

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	// Register decoders for the image formats accepted for upload.
	_ "image/jpeg"
	_ "image/png"

	"luxbyte/internal/domain"
)

// Candidate is a file under validation: plain data plus a seekable reader, so
// the validator stays independent of multipart plumbing and the DOM-free
// upload pipeline can be unit tested directly.
type Candidate struct {
	Name   string
	Size   int64
	Reader io.ReadSeeker
}

// Result is the verdict for one (candidate, requirement) pair.
type Result struct {
	Valid   bool
	Reason  domain.RejectReason
	Message string
}

// Err maps a failed result to its domain sentinel error, wrapped with the
// human-readable message. Returns nil for a valid result.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	var base error
	switch r.Reason {
	case domain.ReasonNoFile:
		base = domain.ErrNoFile
	case domain.ReasonUnsupportedFormat:
		base = domain.ErrUnsupportedFormat
	case domain.ReasonFileTooLarge:
		base = domain.ErrFileTooLarge
	case domain.ReasonBadDimensions:
		base = domain.ErrBadDimensions
	case domain.ReasonUnreadableImage:
		base = domain.ErrUnreadableImage
	default:
		base = domain.ErrUnsupportedFormat
	}
	return fmt.Errorf("%w: %s", base, r.Message)
}

func fail(reason domain.RejectReason, msg string) Result {
	return Result{Valid: false, Reason: reason, Message: msg}
}

// Validate checks a candidate file against a document requirement. Checks run
// in order and short-circuit on the first failure: presence, extension,
// byte size, content sniff, image dimensions. PDFs skip the dimension step.
// The verdict depends only on the candidate's bytes and the requirement.
func Validate(ctx context.Context, c *Candidate, req domain.DocumentRequirement) Result {
	if c == nil || c.Reader == nil || c.Name == "" {
		return fail(domain.ReasonNoFile, "no file provided")
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(c.Name), "."))
	fileType, known := domain.AllowedExtensions[ext]
	if !known || !req.Accepts(fileType) {
		return fail(domain.ReasonUnsupportedFormat,
			fmt.Sprintf("format %q not accepted; allowed: %s", ext, formatList(req.AcceptedFormats)))
	}

	if c.Size > req.MaxSizeBytes {
		return fail(domain.ReasonFileTooLarge,
			fmt.Sprintf("file is %d bytes; limit is %d bytes", c.Size, req.MaxSizeBytes))
	}

	// Magic-byte sniff: the content must actually be the type the extension
	// claims, not just carry the right name.
	sniffed, err := sniffContentType(c.Reader)
	if err != nil {
		return fail(domain.ReasonUnreadableImage, "could not read file content")
	}
	if expected := domain.AllowedFileTypes[fileType]; !contentTypeMatches(sniffed, expected) {
		return fail(domain.ReasonUnsupportedFormat,
			fmt.Sprintf("content looks like %s, not %s", sniffed, expected))
	}

	if req.Dimensions != nil && domain.ImageFileTypes[fileType] {
		if err := ctx.Err(); err != nil {
			return fail(domain.ReasonUnreadableImage, "validation canceled")
		}
		return checkDimensions(c.Reader, *req.Dimensions)
	}

	return Result{Valid: true}
}

// checkDimensions decodes only the image header to obtain pixel dimensions,
// then rewinds the reader for the caller.
func checkDimensions(r io.ReadSeeker, rule domain.DimensionRule) Result {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return fail(domain.ReasonUnreadableImage, "could not rewind file")
	}
	cfg, _, err := image.DecodeConfig(r)
	if _, seekErr := r.Seek(0, io.SeekStart); seekErr != nil {
		return fail(domain.ReasonUnreadableImage, "could not rewind file")
	}
	if err != nil {
		return fail(domain.ReasonUnreadableImage, "image could not be decoded")
	}

	if rule.Exact() {
		if cfg.Width != rule.Width || cfg.Height != rule.Height {
			return fail(domain.ReasonBadDimensions,
				fmt.Sprintf("image is %dx%d; required exactly %dx%d",
					cfg.Width, cfg.Height, rule.Width, rule.Height))
		}
		return Result{Valid: true}
	}

	if rule.MinWidth > 0 && cfg.Width < rule.MinWidth {
		return fail(domain.ReasonBadDimensions,
			fmt.Sprintf("image width is %dpx; required at least %dpx", cfg.Width, rule.MinWidth))
	}
	return Result{Valid: true}
}

// sniffContentType reads the first 512 bytes for content-type detection and
// rewinds the reader.
func sniffContentType(r io.ReadSeeker) (string, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	buf := make([]byte, 512)
	n, err := r.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

// contentTypeMatches compares a sniffed content type against the expected
// one, ignoring parameters. PDFs sniff as application/pdf on modern Go; a
// generic octet-stream sniff is tolerated for PDFs only, since DetectContentType
// does not know every PDF variant.
func contentTypeMatches(sniffed, expected string) bool {
	sniffed = strings.TrimSpace(strings.Split(sniffed, ";")[0])
	if sniffed == expected {
		return true
	}
	return expected == "application/pdf" && sniffed == "application/octet-stream"
}

func formatList(formats []domain.FileType) string {
	parts := make([]string, len(formats))
	for i, f := range formats {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}
