package qrcode

import "context"

const DefaultSize = 256

// Encoder renders text as a PNG QR image.
type Encoder interface {
	EncodePNG(ctx context.Context, text string) ([]byte, error)
}
