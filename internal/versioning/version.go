// Package versioning selects a handler for a request based on an API version
// token carried in a header, a query parameter, or a URL segment.
package versioning

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidVersion is returned when a token is not of the form "major" or "major.minor".
var ErrInvalidVersion = errors.New("invalid api version")

// Version is a parsed API version. "2" and "2.0" are the same version.
type Version struct {
	Major int
	Minor int
}

// Parse reads a version token such as "1", "2.0" or "1.5".
func Parse(raw string) (Version, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Version{}, fmt.Errorf("%w: empty", ErrInvalidVersion)
	}

	majorStr, minorStr, hasMinor := strings.Cut(s, ".")
	major, err := parsePart(majorStr)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, raw)
	}

	minor := 0
	if hasMinor {
		if minor, err = parsePart(minorStr); err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, raw)
		}
	}

	return Version{Major: major, Minor: minor}, nil
}

func parsePart(s string) (int, error) {
	if s == "" {
		return 0, ErrInvalidVersion
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, ErrInvalidVersion
		}
	}
	return strconv.Atoi(s)
}

// String renders the version without a trailing ".0".
func (v Version) String() string {
	if v.Minor == 0 {
		return strconv.Itoa(v.Major)
	}
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
}

// Compare returns -1, 0 or +1 ordering v against o.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		if v.Major < o.Major {
			return -1
		}
		return 1
	case v.Minor < o.Minor:
		return -1
	case v.Minor > o.Minor:
		return 1
	default:
		return 0
	}
}

type ctxKey struct{}

// WithVersion stores the resolved version in ctx.
func WithVersion(ctx context.Context, v Version) context.Context {
	return context.WithValue(ctx, ctxKey{}, v)
}

// FromContext returns the version resolved for the current request.
func FromContext(ctx context.Context) (Version, bool) {
	v, ok := ctx.Value(ctxKey{}).(Version)
	return v, ok
}
