package fake

import (
	"context"
	"sync"
)

// Encoder записывает всё, что его просили закодировать, и возвращает
// текст как "PNG". Для тестов без декодирования картинок.
type Encoder struct {
	mu    sync.Mutex
	texts []string
	Err   error
}

func New() *Encoder { return &Encoder{} }

func (e *Encoder) EncodePNG(_ context.Context, text string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return nil, e.Err
	}
	e.texts = append(e.texts, text)
	return []byte("png:" + text), nil
}

func (e *Encoder) Texts() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.texts...)
}
