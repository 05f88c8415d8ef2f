package contact

import (
	"fmt"

	"github.com/vortex-fintech/go-contact/textutil"
)

const maxTitleRunes = 64

// defaultJobTitles is consulted top to bottom. Specific titles come before the
// general titles they contain ("Software Engineer" before "Engineer").
var defaultJobTitles = []string{
	"Senior Software Engineer",
	"Software Engineer",
	"Software Developer",
	"Full Stack Developer",
	"Frontend Developer",
	"Backend Developer",
	"Mobile Developer",
	"Web Developer",
	"DevOps Engineer",
	"Data Engineer",
	"Data Scientist",
	"Data Analyst",
	"Machine Learning Engineer",
	"QA Engineer",
	"Engineering Manager",
	"Product Manager",
	"Project Manager",
	"Product Designer",
	"UX Designer",
	"UI Designer",
	"Business Analyst",
	"Solutions Architect",
	"Architect",
	"Consultant",
	"Designer",
	"Engineer",
	"Developer",
	"Manager",
}

// DefaultJobTitles returns a copy of the built-in vocabulary in precedence order.
func DefaultJobTitles() []string {
	return append([]string(nil), defaultJobTitles...)
}

// canonicalVocabulary trims and validates titles. Entries that fold to an
// already listed title are dropped; the first spelling wins.
func canonicalVocabulary(titles []string) ([]string, error) {
	if len(titles) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidVocabulary)
	}

	out := make([]string, 0, len(titles))
	seen := make(map[string]struct{}, len(titles))
	for i, t := range titles {
		clean, err := textutil.CanonicalizeLine(t, maxTitleRunes)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d %q: %v", ErrInvalidVocabulary, i, t, err)
		}
		key := textutil.Fold(clean)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, clean)
	}
	return out, nil
}
