package intake

import "bytes"

// AcquireSource identifies how a document payload was obtained.
type AcquireSource string

const (
	SourceCamera AcquireSource = "camera"
	SourcePicker AcquireSource = "picker"
)

// RawFile is an acquired document payload, fully buffered and detached from
// the request body so downstream validation can seek freely.
type RawFile struct {
	Name        string
	Size        int64
	ContentType string
	Source      AcquireSource
	Data        []byte
}

// Reader returns a fresh seekable reader over the payload.
func (f *RawFile) Reader() *bytes.Reader {
	return bytes.NewReader(f.Data)
}
