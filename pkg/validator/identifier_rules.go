package validator

import (
	"fmt"
	"regexp"
	"strings"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug validates URL-safe slugs, preventing edge cases like leading/trailing hyphens.
func ValidSlug(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}
			return slugRegex.MatchString(value)
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid slug (lowercase letters, numbers, and hyphens only)",
		},
	}
}

// ValidPattern validates a value against a custom regular expression.
// The description names the expected shape in the error message. An invalid
// pattern fails the rule rather than panicking.
func ValidPattern(field, value, pattern, description string) Rule {
	return Rule{
		Check: func() bool {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return false
			}
			return re.MatchString(value)
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be a valid %s", description),
		},
	}
}
