package validation

import (
	"fmt"
	"strings"
)

// Error collects per-field validation messages keyed by JSON field name.
// Handlers answer it with 400 and the Fields map as details.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(msgs, "; ")
}
