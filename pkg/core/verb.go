package core

import (
	"fmt"
	"net/http"
	"strings"
)

// Verb is the closed set of HTTP methods the executors dispatch.
type Verb int

const (
	// VerbGet performs an HTTP GET request.
	VerbGet Verb = iota
	// VerbPut performs an HTTP PUT request.
	VerbPut
	// VerbPost performs an HTTP POST request.
	VerbPost
	// VerbDelete performs an HTTP DELETE request.
	VerbDelete
)

// String returns the HTTP method name for the verb.
func (v Verb) String() string {
	return [...]string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete}[v]
}

// ParseVerb maps a method name onto the closed verb set. Unknown names are
// rejected before any request is constructed; there is no default fallback.
func ParseVerb(s string) (Verb, error) {
	switch strings.ToUpper(s) {
	case http.MethodGet:
		return VerbGet, nil
	case http.MethodPut:
		return VerbPut, nil
	case http.MethodPost:
		return VerbPost, nil
	case http.MethodDelete:
		return VerbDelete, nil
	default:
		return 0, fmt.Errorf("unsupported http verb: %q", s)
	}
}
