package textutil

import (
	"errors"
	"testing"
)

func TestCanonicalizeLine(t *testing.T) {
	t.Parallel()

	t.Run("collapses spaces and trims", func(t *testing.T) {
		got, err := CanonicalizeLine("  Software \t  Engineer  ", 64)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "Software Engineer" {
			t.Fatalf("unexpected value: %q", got)
		}
	})

	t.Run("nbsp treated as space", func(t *testing.T) {
		got, err := CanonicalizeLine("Data\u00a0Scientist", 64)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "Data Scientist" {
			t.Fatalf("unexpected value: %q", got)
		}
	})

	tests := []struct {
		name     string
		in       string
		maxRunes int
	}{
		{name: "invalid max runes", in: "a", maxRunes: 0},
		{name: "empty", in: "   ", maxRunes: 64},
		{name: "inner newline", in: "Software\nEngineer", maxRunes: 64},
		{name: "line separator", in: "Software\u2028Engineer", maxRunes: 64},
		{name: "invalid utf8", in: string([]byte{0xff, 'a'}), maxRunes: 64},
		{name: "format char", in: "Dev\u200Doper", maxRunes: 64},
		{name: "control char", in: "Dev\x07oper", maxRunes: 64},
		{name: "rune limit exceeded", in: "abcd", maxRunes: 3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := CanonicalizeLine(tt.in, tt.maxRunes)
			if !errors.Is(err, ErrInvalidText) {
				t.Fatalf("expected ErrInvalidText, got %v", err)
			}
		})
	}
}
