package redirectcode

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"

	"github.com/BearBump/QRLink/internal/models"
)

const alphabet = "0123456789abcdef"

// Generator returns a fresh redirect code.
type Generator func() (string, error)

// Generate returns a random lowercase hex code of models.RedirectCodeLength chars.
func Generate() (string, error) {
	code, err := gonanoid.Generate(alphabet, models.RedirectCodeLength)
	if err != nil {
		return "", errors.Wrap(err, "generate redirect code")
	}
	return code, nil
}

// Valid reports whether s has the shape of a generated code.
func Valid(s string) bool {
	if len(s) != models.RedirectCodeLength {
		return false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return false
		}
	}
	return true
}
