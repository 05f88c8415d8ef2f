package contact

import (
	"fmt"

	"github.com/vortex-fintech/go-contact/textutil"
)

// Extractor runs an ordered list of recognizers over free text. It holds no
// mutable state after New returns and is safe for concurrent use.
type Extractor struct {
	recognizers []Recognizer
	foldCompat  bool
}

type settings struct {
	recognizers []Recognizer
	replaced    bool
	extra       []Recognizer
	titles      []string
	foldCompat  bool
}

// Option configures an Extractor.
type Option func(*settings)

// WithRecognizers replaces the default recognizer list. Order is precedence
// when several recognizers target the same field.
func WithRecognizers(rs ...Recognizer) Option {
	return func(s *settings) {
		s.recognizers = append([]Recognizer(nil), rs...)
		s.replaced = true
	}
}

// WithRecognizer appends r after the configured list.
func WithRecognizer(r Recognizer) Option {
	return func(s *settings) { s.extra = append(s.extra, r) }
}

// WithJobTitles replaces the job title vocabulary used by the default list.
// It has no effect when WithRecognizers is used.
func WithJobTitles(titles ...string) Option {
	return func(s *settings) { s.titles = append([]string(nil), titles...) }
}

// WithCompatibilityFolding makes recognizers see an NFKC-folded copy of the
// input, so full-width digits and letters are matched as ASCII.
func WithCompatibilityFolding() Option {
	return func(s *settings) { s.foldCompat = true }
}

// New builds an Extractor. Without options it recognizes email, phone,
// website and job title, in that order.
func New(opts ...Option) (*Extractor, error) {
	s := settings{titles: defaultJobTitles}
	for _, opt := range opts {
		opt(&s)
	}

	list := s.recognizers
	if !s.replaced {
		jobs, err := JobTitleRecognizer(s.titles)
		if err != nil {
			return nil, err
		}
		list = []Recognizer{EmailRecognizer(), PhoneRecognizer(), WebsiteRecognizer(), jobs}
	}
	list = append(list, s.extra...)

	for i, r := range list {
		if r == nil {
			return nil, fmt.Errorf("%w at position %d", ErrNilRecognizer, i)
		}
		if _, err := ParseField(string(r.Field())); err != nil {
			return nil, fmt.Errorf("recognizer %d: %w", i, err)
		}
	}

	return &Extractor{recognizers: list, foldCompat: s.foldCompat}, nil
}

// MustNew is New for package-level wiring; it panics on a bad configuration.
func MustNew(opts ...Option) *Extractor {
	e, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return e
}

var defaultExtractor = MustNew()

// Extract runs the default extractor.
func Extract(text string) Record {
	return defaultExtractor.Extract(text)
}

// Extract applies every recognizer to the whole text. The first recognizer
// to produce a value for a field wins; later ones for that field are skipped.
// Any string is valid input and no match simply leaves the field empty.
func (e *Extractor) Extract(text string) Record {
	var rec Record
	if text == "" {
		return rec
	}
	if e.foldCompat {
		text = textutil.FoldCompat(text)
	}

	for _, r := range e.recognizers {
		if rec.Get(r.Field()) != "" {
			continue
		}
		if v, ok := r.Recognize(text); ok {
			rec.set(r.Field(), v)
		}
	}
	return rec
}

// Recognizers returns the fields handled by the extractor in evaluation order.
func (e *Extractor) Recognizers() []Field {
	out := make([]Field, len(e.recognizers))
	for i, r := range e.recognizers {
		out[i] = r.Field()
	}
	return out
}
