package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vortex-fintech/go-contact/contact"
	"github.com/vortex-fintech/go-contact/validator"
)

type settings struct {
	Addr    string `json:"addr" validate:"required,hostname_port"`
	Workers int    `json:"workers" validate:"min=1"`
	Nested  struct {
		Mode string `json:"mode" validate:"oneof=live cache"`
	} `json:"nested"`
}

func TestValidate_Valid(t *testing.T) {
	s := settings{Addr: "localhost:6379", Workers: 2}
	s.Nested.Mode = "live"
	assert.Nil(t, validator.Validate(s))
}

func TestValidate_CodesKeyedByJSONPath(t *testing.T) {
	res := validator.Validate(settings{Addr: "no-port"})
	assert.Equal(t, map[string]string{
		"addr":        "invalid_address",
		"workers":     "too_short",
		"nested.mode": "invalid_choice",
	}, res)
}

func TestValidate_ErrorType(t *testing.T) {
	res := validator.Validate(123)
	assert.Equal(t, "validation_failed", res["_error"])
}

func TestValidate_ExtractedRecord(t *testing.T) {
	assert.Nil(t, validator.Validate(contact.Extract(`Moustafa Ahmed
Software Engineer
moustafa@example.com
+20-100-123-4567
linkedin.com/in/moustafa`)))
	assert.Nil(t, validator.Validate(contact.Record{}))
}

func TestPhoneShape(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{"international", "+201001234567", true},
		{"double zero", "00442079460958", true},
		{"parentheses", "(555)1234567", true},
		{"dots", "555.123.4567", true},
		{"not normalized", "+20 100 123 4567", false},
		{"hyphens", "555-123-4567", false},
		{"plus in middle", "555+1234567", false},
		{"letters", "555CALLNOW1", false},
		{"too short", "12345678", false},
		{"too long", "1234567890123456", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := validator.Validate(contact.Record{Phone: tt.phone})
			if tt.valid {
				assert.Nil(t, res)
			} else {
				assert.Equal(t, "invalid_phone", res["phone"])
			}
		})
	}
}

func TestProfileURL(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		valid bool
	}{
		{"canonical", "https://linkedin.com/in/jane-doe-42", true},
		{"http", "http://linkedin.com/in/jane", false},
		{"www", "https://www.linkedin.com/in/jane", false},
		{"upper case handle", "https://linkedin.com/in/Jane", false},
		{"trailing slash", "https://linkedin.com/in/jane/", false},
		{"no handle", "https://linkedin.com/in/", false},
		{"other site", "https://github.com/jane", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := validator.Validate(contact.Record{Website: tt.url})
			if tt.valid {
				assert.Nil(t, res)
			} else {
				assert.Equal(t, "invalid_profile_url", res["website"])
			}
		})
	}
}

func TestEmailAndJobTitle(t *testing.T) {
	res := validator.Validate(contact.Record{Email: "not-an-email", JobTitle: string(make([]byte, 129))})
	assert.Equal(t, "invalid_email", res["email"])
	assert.Equal(t, "too_long", res["jobTitle"])
}
