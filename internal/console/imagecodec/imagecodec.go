package imagecodec

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// PreviewScheme prefixes preview handles
const PreviewScheme = "preview://"

// Rejections of Encode
var (
	ErrNotImage = errors.New("selected file is not an image")
	ErrTooLarge = errors.New("selected image is too large")
)

// Encoded is an image ready for JSON transport
type Encoded struct {
	Name   string
	MIME   string
	Size   int64
	Base64 string

	raw []byte
}

// DataURI renders the image with its data URI prefix
func (e *Encoded) DataURI() string {
	return "data:" + e.MIME + ";base64," + e.Base64
}

// Bytes returns the original file content
func (e *Encoded) Bytes() []byte {
	return e.raw
}

// Encode reads r and returns its base64 form. Content over maxBytes and
// content whose sniffed type is not image/* are rejected.
func Encode(name string, r io.Reader, maxBytes int64) (*Encoded, error) {
	var reader io.Reader = r
	if maxBytes > 0 {
		reader = io.LimitReader(r, maxBytes+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, errors.Wrapf(ErrTooLarge, "%s exceeds %s", name, HumanSize(maxBytes))
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, errors.Wrapf(ErrNotImage, "%s is %s", name, mime.String())
	}

	return &Encoded{
		Name:   name,
		MIME:   mime.String(),
		Size:   int64(len(data)),
		Base64: base64.StdEncoding.EncodeToString(data),
		raw:    data,
	}, nil
}

// StripDataURIPrefix removes a data:...;base64, prefix
func StripDataURIPrefix(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.Index(s, ";base64,"); i >= 0 {
		return s[i+len(";base64,"):]
	}
	if i := strings.Index(s, ","); i >= 0 {
		return s[i+1:]
	}
	return s
}

// HumanSize formats a byte count in MiB or KiB
func HumanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.0f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.0f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// Previews holds local preview resources until they are revoked
type Previews struct {
	mu        sync.Mutex
	resources map[string]fyne.Resource
}

// NewPreviews creates an empty preview registry
func NewPreviews() *Previews {
	return &Previews{resources: make(map[string]fyne.Resource)}
}

// Create registers a preview of enc and returns its handle
func (p *Previews) Create(enc *Encoded) string {
	handle := PreviewScheme + uuid.NewString()

	p.mu.Lock()
	p.resources[handle] = fyne.NewStaticResource(enc.Name, enc.raw)
	p.mu.Unlock()

	return handle
}

// Resource returns the preview behind handle
func (p *Previews) Resource(handle string) (fyne.Resource, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	res, ok := p.resources[handle]
	return res, ok
}

// Revoke releases handle, revoking an unknown or empty handle is a no-op
func (p *Previews) Revoke(handle string) {
	if handle == "" {
		return
	}
	p.mu.Lock()
	delete(p.resources, handle)
	p.mu.Unlock()
}

// Len returns the number of live previews
func (p *Previews) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.resources)
}
