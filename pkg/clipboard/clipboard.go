// Package clipboard re-injects history content into the OS clipboard. Text
// goes through the system pasteboard directly; images are handed off via a
// temporary file because the pasteboard API has no byte-level entry point
// from a headless process.
package clipboard

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	atotto "github.com/atotto/clipboard"
)

// WriteText places UTF-8 text on the system clipboard.
func WriteText(text string) error {
	if err := atotto.WriteAll(text); err != nil {
		return fmt.Errorf("write text to clipboard: %w", err)
	}
	return nil
}

// WriteImage places image bytes on the system clipboard. The bytes are
// written to a temporary file and handed to osascript, which reads them as
// the pasteboard class matching mimeType. The payload is treated as opaque:
// no decoding or re-encoding happens here.
func WriteImage(ctx context.Context, data []byte, mimeType string) error {
	f, err := os.CreateTemp("", "maccy-mcp-*"+extensionFor(mimeType))
	if err != nil {
		return fmt.Errorf("create temporary image file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temporary image file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temporary image file: %w", err)
	}

	script := fmt.Sprintf(`set the clipboard to (read (POSIX file %q) as %s)`,
		f.Name(), pasteboardClass(mimeType))
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("set clipboard image: %v: %s", err, out)
	}
	return nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/tiff":
		return ".tiff"
	}
	return ".bin"
}

func pasteboardClass(mimeType string) string {
	switch mimeType {
	case "image/png":
		return "«class PNGf»"
	case "image/jpeg":
		return "JPEG picture"
	default:
		return "TIFF picture"
	}
}
