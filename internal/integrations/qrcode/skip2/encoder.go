package skip2

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	goqrcode "github.com/skip2/go-qrcode"

	"github.com/BearBump/QRLink/internal/integrations/qrcode"
)

type Encoder struct {
	size  int
	level goqrcode.RecoveryLevel
}

// New returns an encoder producing size x size PNGs with medium error correction.
// A non-positive size falls back to qrcode.DefaultSize.
func New(size int) *Encoder {
	if size <= 0 {
		size = qrcode.DefaultSize
	}
	return &Encoder{size: size, level: goqrcode.Medium}
}

func (e *Encoder) EncodePNG(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("qrcode: empty content")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	png, err := goqrcode.Encode(text, e.level, e.size)
	if err != nil {
		return nil, errors.Wrap(err, "qrcode encode")
	}
	return png, nil
}
