package contact

import (
	"fmt"

	"github.com/vortex-fintech/go-contact/piiutil"
)

// Field names one slot of the fixed Record schema.
type Field string

const (
	FieldName     Field = "name"
	FieldEmail    Field = "email"
	FieldPhone    Field = "phone"
	FieldJobTitle Field = "jobTitle"
	FieldWebsite  Field = "website"
)

var schema = []Field{FieldName, FieldEmail, FieldPhone, FieldJobTitle, FieldWebsite}

// Fields returns the record schema in display order.
func Fields() []Field {
	return append([]Field(nil), schema...)
}

// ParseField validates s against the record schema.
func ParseField(s string) (Field, error) {
	for _, f := range schema {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Record is the structured result of one extraction. Unmatched fields are
// empty. Name is never filled by the built-in recognizers.
type Record struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty,phone_shape"`
	JobTitle string `json:"jobTitle" validate:"omitempty,max=128"`
	Website  string `json:"website" validate:"omitempty,profile_url"`
}

// Get returns the value stored for f, or "" for fields outside the schema.
func (r Record) Get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldEmail:
		return r.Email
	case FieldPhone:
		return r.Phone
	case FieldJobTitle:
		return r.JobTitle
	case FieldWebsite:
		return r.Website
	default:
		return ""
	}
}

// IsEmpty reports whether no field was matched.
func (r Record) IsEmpty() bool {
	return r == Record{}
}

// Matched lists the fields that carry a value, in schema order.
func (r Record) Matched() []Field {
	var out []Field
	for _, f := range schema {
		if r.Get(f) != "" {
			out = append(out, f)
		}
	}
	return out
}

// Redacted returns a copy safe for logs: contact values are masked, the job
// title is kept.
func (r Record) Redacted() Record {
	return Record{
		Name:     piiutil.MaskName(r.Name),
		Email:    piiutil.MaskEmail(r.Email),
		Phone:    piiutil.MaskPhone(r.Phone),
		JobTitle: r.JobTitle,
		Website:  piiutil.MaskProfileURL(r.Website),
	}
}

// set stores v in f unless f already holds a value. It reports whether v was stored.
func (r *Record) set(f Field, v string) bool {
	var dst *string
	switch f {
	case FieldName:
		dst = &r.Name
	case FieldEmail:
		dst = &r.Email
	case FieldPhone:
		dst = &r.Phone
	case FieldJobTitle:
		dst = &r.JobTitle
	case FieldWebsite:
		dst = &r.Website
	default:
		return false
	}
	if *dst != "" || v == "" {
		return false
	}
	*dst = v
	return true
}
