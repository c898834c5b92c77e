// Package wellformed reports whether a document scans without errors.
package wellformed

import "github.com/yaklabco/goxaml/pkg/sax"

// Check reports whether text is well-formed. The whole input is always
// scanned; the result is false once any error event was seen.
func Check(text string) bool {
	ok := true

	for ev := range sax.Events(text) {
		if ev.Kind == sax.KindError {
			ok = false
		}
	}

	return ok
}

// CheckFragment is Check for a slice of a larger document, such as one
// edited line: sibling elements at the top level are allowed.
func CheckFragment(text string) bool {
	ok := true

	for ev := range sax.Events(text) {
		if ev.Kind == sax.KindError && ev.Text != sax.ErrMultipleRoots {
			ok = false
		}
	}

	return ok
}

// Errors returns every error event raised while scanning text.
func Errors(text string) []sax.Event {
	var errs []sax.Event

	for ev := range sax.Events(text) {
		if ev.Kind == sax.KindError {
			errs = append(errs, ev)
		}
	}

	return errs
}
