package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		contentType string
		want        Kind
	}{
		{"public.png", KindImage},
		{"public.jpeg", KindImage},
		{"public.tiff", KindImage},
		{"com.apple.NSImage", KindImage},
		{"image/png", KindImage},
		{"image/webp", KindImage},
		{"public.utf8-plain-text", KindText},
		{"public.text", KindText},
		{"public.url", KindText},
		{"public.file-url", KindText},
		{"", KindText},
		// prefix only counts for the image/* pattern, not the UTIs
		{"public.png.something", KindText},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.contentType))
		})
	}
}

func TestMIMEType(t *testing.T) {
	assert.Equal(t, "image/png", MIMEType("public.png"))
	assert.Equal(t, "image/jpeg", MIMEType("public.jpeg"))
	assert.Equal(t, "image/tiff", MIMEType("public.tiff"))
	assert.Equal(t, "image/tiff", MIMEType("com.apple.NSImage"))
	assert.Equal(t, "image/webp", MIMEType("image/webp"))
	assert.Equal(t, "application/octet-stream", MIMEType("public.text"))
}

func TestExcludeImages(t *testing.T) {
	t.Run("drops image fragments keeps text", func(t *testing.T) {
		e := Entry{
			Title: "mixed",
			Fragments: []Fragment{
				{Type: "public.utf8-plain-text", Kind: KindText, Value: "hello"},
				{Type: "public.png", Kind: KindImage, Value: []byte{1, 2, 3}},
			},
		}
		got, ok := ExcludeImages(e)
		assert.True(t, ok)
		assert.Len(t, got.Fragments, 1)
		assert.Equal(t, "public.utf8-plain-text", got.Fragments[0].Type)
	})

	t.Run("image-only entry with title is kept", func(t *testing.T) {
		e := Entry{
			Title: "screenshot.png",
			Fragments: []Fragment{
				{Type: "public.png", Kind: KindImage, Value: []byte{1}},
			},
		}
		got, ok := ExcludeImages(e)
		assert.True(t, ok)
		assert.Empty(t, got.Fragments)
	})

	t.Run("entry with no fragments but a title is kept", func(t *testing.T) {
		_, ok := ExcludeImages(Entry{Title: "just a title"})
		assert.True(t, ok)
	})

	t.Run("image-only untitled entry is dropped", func(t *testing.T) {
		e := Entry{
			Fragments: []Fragment{
				{Type: "public.png", Kind: KindImage, Value: []byte{1}},
			},
		}
		_, ok := ExcludeImages(e)
		assert.False(t, ok)
	})
}
