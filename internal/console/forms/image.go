package forms

import (
	"github.com/vova4o/labconsole/internal/console/imagecodec"
)

// ImageField is the image part of a draft. Existing is the served-back
// path of the stored image, Encoded and Preview hold a newly picked file.
type ImageField struct {
	Existing string
	Encoded  *imagecodec.Encoded
	Preview  string
}

// Picked reports whether a new image was chosen
func (f ImageField) Picked() bool {
	return f.Encoded != nil
}

// Base64 returns the payload of a newly picked image, empty otherwise
func (f ImageField) Base64() string {
	if f.Encoded == nil {
		return ""
	}
	return imagecodec.StripDataURIPrefix(f.Encoded.Base64)
}

// Replace swaps in a new image and revokes the previous preview
func (f *ImageField) Replace(previews *imagecodec.Previews, enc *imagecodec.Encoded) {
	f.Release(previews)
	f.Encoded = enc
	f.Preview = previews.Create(enc)
}

// Release drops the picked image and revokes its preview
func (f *ImageField) Release(previews *imagecodec.Previews) {
	if previews != nil {
		previews.Revoke(f.Preview)
	}
	f.Encoded = nil
	f.Preview = ""
}
