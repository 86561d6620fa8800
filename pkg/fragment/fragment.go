// Package fragment compiles hash-fragment route patterns.
//
// Routes are assembled from ordered parts: literal text, which matches
// itself, and Raw values such as Param captures, which are inserted as
// pattern syntax. The compiled pattern is anchored at both ends and
// case-sensitive, so it matches complete fragments only.
package fragment

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Fragments addressable by a router always carry this prefix.
const prefix = "#/"

// ErrInvalidRoute is returned by Route when the assembled parts do not
// form a valid route. Detect it with errors.Is.
var ErrInvalidRoute = errors.New("invalid route")

// Raw is a pattern fragment inserted into a route verbatim, without
// escaping. Use it to embed pattern syntax such as captures.
type Raw string

// Param returns a Raw capture that matches one or more word characters
// (letters, digits, underscore) and records them under name.
//
// The name must itself consist of word characters and be unique within
// the enclosing route; violations surface as errors from Route.
func Param(name string) Raw {
	return Raw(`(?P<` + name + `>\w+)`)
}

// Route assembles parts into a single anchored pattern.
//
// Raw parts are inserted verbatim. String parts are escaped so regexp
// metacharacters match literally. Any other value is stringified first
// and then escaped. The assembled route must begin with "#/"; otherwise
// Route returns an error wrapping ErrInvalidRoute that quotes the
// offending route.
func Route(parts ...any) (*regexp.Regexp, error) {
	var pattern, display strings.Builder
	for _, part := range parts {
		switch p := part.(type) {
		case Raw:
			pattern.WriteString(string(p))
			display.WriteString(string(p))
		case string:
			pattern.WriteString(regexp.QuoteMeta(p))
			display.WriteString(p)
		default:
			s := fmt.Sprint(p)
			pattern.WriteString(regexp.QuoteMeta(s))
			display.WriteString(s)
		}
	}

	route := display.String()
	if !strings.HasPrefix(route, prefix) {
		return nil, fmt.Errorf("%w: %q must begin with %q", ErrInvalidRoute, route, prefix)
	}

	re, err := regexp.Compile("^" + pattern.String() + "$")
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRoute, route, err)
	}
	return re, nil
}

// MustRoute is like Route but panics on error. It simplifies
// package-level route variables, mirroring regexp.MustCompile.
func MustRoute(parts ...any) *regexp.Regexp {
	re, err := Route(parts...)
	if err != nil {
		panic(err)
	}
	return re
}
