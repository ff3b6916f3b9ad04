package qrcode

import (
	"github.com/skip2/go-qrcode"
)

const defaultSize = 512

// Generate renders a plain QR code for the given content and returns PNG bytes.
// Medium recovery keeps the code scannable from a chat preview.
func Generate(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultSize
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
