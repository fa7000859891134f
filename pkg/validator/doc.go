// Package validator provides a composable set of rule-building helpers for
// validating input at write boundaries.
//
// A Rule is a check closure paired with the field error recorded when it
// fails; Apply runs the rules and collects every failure instead of stopping
// at the first, so a form round-trip reports everything wrong at once.
//
// Basic usage:
//
//	err := validator.Apply(
//	    validator.Required("name", role.Name),
//	    validator.MaxLen("name", role.Name, 100),
//	    validator.ValidSlug("slug", item.Slug),
//	    validator.BetweenNum("level", item.Level, 1, 3),
//	)
//	if err != nil {
//	    fieldErrors := validator.ExtractValidationErrors(err)
//	    // fieldErrors.Has("slug"), fieldErrors.Get("slug"), ...
//	}
//
// The returned error is a ValidationErrors value; callers at an HTTP
// boundary typically translate it into a 422 with per-field messages.
package validator
