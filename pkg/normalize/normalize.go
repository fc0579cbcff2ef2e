package normalize

import (
	"fmt"

	"github.com/mattjh/maccy-mcp/pkg/history"
)

// SanitizeFailedSentinel replaces a text fragment whose sanitization
// panicked. One bad fragment must never abort its item.
const SanitizeFailedSentinel = "[Content could not be sanitized]"

// Value is one normalized content representation. Text fragments carry
// sanitized Text; image fragments carry Bytes exactly as stored.
type Value struct {
	Kind  history.Kind
	Text  string
	Bytes []byte
}

// Normalize builds the per-item content map from raw fragments. Keys are
// unique per content type; when the store holds duplicate fragments of the
// same type, the last one wins. Text values are always sanitized before
// leaving this package, binary values are never mutated.
func Normalize(fragments []history.Fragment, level Strictness) map[string]Value {
	content := make(map[string]Value, len(fragments))
	for _, f := range fragments {
		content[f.Type] = normalizeFragment(f, level)
	}
	return content
}

func normalizeFragment(f history.Fragment, level Strictness) Value {
	// Binary is decided by the column's native representation: the store's
	// value slot can in principle hold either text or a blob under any
	// content type.
	if raw, ok := f.Value.([]byte); ok && f.Kind == history.KindImage {
		return Value{Kind: history.KindImage, Bytes: raw}
	}
	return Value{Kind: history.KindText, Text: sanitizeValue(f.Value, level)}
}

// sanitizeValue coerces the raw value to a string and sanitizes it. A panic
// anywhere in the transform degrades to the sentinel instead of propagating.
func sanitizeValue(v any, level Strictness) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = SanitizeFailedSentinel
		}
	}()

	var s string
	switch t := v.(type) {
	case string:
		s = t
	case []byte:
		s = string(t)
	case nil:
		s = ""
	default:
		s = fmt.Sprint(t)
	}
	return Sanitize(s, level)
}

// textPrecedence orders the content types considered for an item's primary
// text representation.
var textPrecedence = []string{"public.utf8-plain-text", "public.text"}

// imagePrecedence orders the content types considered for an item's primary
// image representation.
var imagePrecedence = []string{"public.png", "public.jpeg", "public.tiff"}

// PrimaryText selects the text representation used by search summaries,
// copy-back and export: utf8 plain text, then generic text, then the entry
// title. First non-empty wins.
func PrimaryText(content map[string]Value, title string) string {
	for _, t := range textPrecedence {
		if v, ok := content[t]; ok && v.Kind == history.KindText && v.Text != "" {
			return v.Text
		}
	}
	return title
}

// PrimaryImage selects the image representation used for copy-back: PNG,
// then JPEG, then TIFF. Returns the opaque bytes and their MIME type.
func PrimaryImage(content map[string]Value) (data []byte, mimeType string, ok bool) {
	for _, t := range imagePrecedence {
		if v, found := content[t]; found && v.Kind == history.KindImage && len(v.Bytes) > 0 {
			return v.Bytes, history.MIMEType(t), true
		}
	}
	return nil, "", false
}
