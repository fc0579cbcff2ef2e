package history

import "strings"

// Kind is the closed classification of a content fragment. It is computed
// once when a fragment is scanned out of the store so downstream code can
// switch on it instead of re-comparing content type strings.
type Kind int

const (
	// KindText covers every content type that is not an image type.
	KindText Kind = iota

	// KindImage covers the known pasteboard image types and anything
	// matching the image/* MIME pattern.
	KindImage
)

// exactImageTypes are the pasteboard UTIs Maccy writes for image content.
var exactImageTypes = []string{
	"public.png",
	"public.jpeg",
	"public.tiff",
	"com.apple.NSImage",
}

// Classify maps a content type tag to its Kind. The exact matches are
// checked first; anything else under the image/* prefix is also an image.
func Classify(contentType string) Kind {
	for _, t := range exactImageTypes {
		if contentType == t {
			return KindImage
		}
	}
	if strings.HasPrefix(contentType, "image/") {
		return KindImage
	}
	return KindText
}

// MIMEType returns the transport MIME type for an image content type tag.
// NSImage payloads are TIFF-encoded on the pasteboard.
func MIMEType(contentType string) string {
	switch contentType {
	case "public.png":
		return "image/png"
	case "public.jpeg":
		return "image/jpeg"
	case "public.tiff", "com.apple.NSImage":
		return "image/tiff"
	}
	if strings.HasPrefix(contentType, "image/") {
		return contentType
	}
	return "application/octet-stream"
}

// ExcludeImages is a list Transform that drops image-classified fragments
// from an entry. The entry stays in the result set if it has any remaining
// fragments or a non-empty title; image-only, untitled entries are dropped.
func ExcludeImages(e Entry) (Entry, bool) {
	kept := make([]Fragment, 0, len(e.Fragments))
	for _, f := range e.Fragments {
		if f.Kind != KindImage {
			kept = append(kept, f)
		}
	}
	e.Fragments = kept
	if len(kept) == 0 && e.Title == "" {
		return e, false
	}
	return e, true
}
