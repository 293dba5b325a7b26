// Package core holds the canonical request primitives shared by every
// exchange integration: parameter encoding, signing, verb and exchange
// enumerations, and the unified fault model.
package core

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Params holds request parameters keyed by name. Values may be scalars or
// slices; slice values encode as repeated key=value pairs.
type Params map[string]any

// Set stores a parameter and returns the map for chaining.
func (p Params) Set(key string, value any) Params {
	p[key] = value
	return p
}

// EncodeParams serializes params into a percent-encoded query string with
// keys in sorted order. Sorting makes the output byte-identical for a fixed
// input mapping, which the signature scheme depends on. An empty map yields
// an empty string.
func EncodeParams(p Params) string {
	if len(p) == 0 {
		return ""
	}
	values := url.Values{}
	for key, value := range p {
		for _, s := range paramStrings(value) {
			values.Add(key, s)
		}
	}
	return values.Encode()
}

// EncodeSigned builds the canonical query string used as the signing input.
// On top of the sorted encoding it normalizes single-quote escapes (%27)
// into double-quote escapes (%22) so parameter values carrying embedded
// JSON reproduce the exact byte string the exchange verifies against.
func EncodeSigned(p Params) string {
	return strings.ReplaceAll(EncodeParams(p), "%27", "%22")
}

func paramStrings(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, scalarString(item))
		}
		return out
	default:
		return []string{scalarString(value)}
	}
}

func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
