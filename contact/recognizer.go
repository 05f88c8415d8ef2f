package contact

import "errors"

var (
	ErrUnknownField      = errors.New("contact: unknown field")
	ErrNilRecognizer     = errors.New("contact: nil recognizer")
	ErrInvalidVocabulary = errors.New("contact: invalid job title vocabulary")
)

// Recognizer scans the whole input for one field and returns the first
// normalized match. Implementations must be pure: no I/O, no shared mutable
// state, safe for concurrent use.
type Recognizer interface {
	Field() Field
	Recognize(text string) (string, bool)
}

type funcRecognizer struct {
	field Field
	fn    func(string) (string, bool)
}

func (r funcRecognizer) Field() Field { return r.field }

func (r funcRecognizer) Recognize(text string) (string, bool) { return r.fn(text) }

// RecognizerFunc adapts a plain function into a Recognizer for field.
func RecognizerFunc(field Field, fn func(text string) (string, bool)) Recognizer {
	if fn == nil {
		return nil
	}
	return funcRecognizer{field: field, fn: fn}
}
