package validator

var tagMap = map[string]string{
	"required":      "required",
	"omitempty":     "optional",
	"email":         "invalid_email",
	"e164":          "invalid_phone",
	"phone_shape":   "invalid_phone",
	"profile_url":   "invalid_profile_url",
	"url":           "invalid_url",
	"http_url":      "invalid_http_url",
	"hostname_port": "invalid_address",
	"max":           "too_long",
	"min":           "too_short",
	"gt":            "too_small",
	"lt":            "too_large",
	"gte":           "too_small_or_equal",
	"lte":           "too_large_or_equal",
	"len":           "invalid_length",
	"oneof":         "invalid_choice",
	"required_if":   "required",
}

func mapTagToCode(tag string) string {
	if code, ok := tagMap[tag]; ok {
		return code
	}
	return "invalid"
}
