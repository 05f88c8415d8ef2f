package textutil

import (
	"strings"
	"testing"
)

func TestFold_SubstringMatching(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		haystack string
		needle   string
		want     bool
	}{
		{name: "exact", haystack: "Senior Software Engineer", needle: "Software Engineer", want: true},
		{name: "different case", haystack: "SOFTWARE ENGINEER at ACME", needle: "software engineer", want: true},
		{name: "accented letters fold", haystack: "Directeur ÉCOLE", needle: "école", want: true},
		{name: "absent", haystack: "Product Designer", needle: "Developer", want: false},
		{name: "empty needle", haystack: "anything", needle: "", want: false},
		{name: "empty haystack", haystack: "", needle: "Manager", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.needle != "" && strings.Contains(Fold(tt.haystack), Fold(tt.needle))
			if got != tt.want {
				t.Fatalf("Fold(%q) contains Fold(%q) = %v, want %v", tt.haystack, tt.needle, got, tt.want)
			}
		})
	}
}

func TestFoldCompat(t *testing.T) {
	t.Parallel()

	if got := FoldCompat("\uFF0B\uFF12\uFF10 \uFF4A\uFF41\uFF4E\uFF45\uFF20\uFF45\uFF58\uFF41\uFF4D\uFF50\uFF4C\uFF45\uFF0E\uFF43\uFF4F\uFF4D"); got != "+20 jane@example.com" {
		t.Fatalf("unexpected value: %q", got)
	}
	if got := FoldCompat("plain ascii"); got != "plain ascii" {
		t.Fatalf("ascii must be unchanged, got %q", got)
	}
}
