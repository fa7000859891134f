package validator

import (
	"fmt"
	"strings"
)

func InList[T comparable](field string, value T, allowedValues []T) Rule {
	return Rule{
		Check: func() bool {
			for _, allowed := range allowedValues {
				if value == allowed {
					return true
				}
			}
			return false
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be one of: %v", allowedValues),
		},
	}
}

func NotInList[T comparable](field string, value T, forbiddenValues []T) Rule {
	return Rule{
		Check: func() bool {
			for _, forbidden := range forbiddenValues {
				if value == forbidden {
					return false
				}
			}
			return true
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must not be one of: %v", forbiddenValues),
		},
	}
}

func InListString(field, value string, allowedValues []string) Rule {
	return InList(field, value, allowedValues)
}

// ValidRole validates a role name against the administratively managed set.
// Same mechanics as InListString with a role-specific error message.
func ValidRole(field, value string, allowedRoles []string) Rule {
	return Rule{
		Check: func() bool {
			for _, role := range allowedRoles {
				if value == role {
					return true
				}
			}
			return false
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("role must be one of: %s", strings.Join(allowedRoles, ", ")),
		},
	}
}
