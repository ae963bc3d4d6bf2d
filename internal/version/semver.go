// Package version parses, bumps and rewrites the semantic version embedded in
// generated scripts and keeps their README and CHANGELOG in step.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMalformedVersion means a version string is not three dot-separated non-negative integers.
	ErrMalformedVersion = errors.New("malformed version")
	// ErrInvalidKind means a bump kind other than major, minor or patch.
	ErrInvalidKind = errors.New("invalid bump kind")
)

// Version is a major.minor.patch triple.
type Version struct {
	Major, Minor, Patch int
}

// Initial is the version every generated artifact starts at.
var Initial = Version{Major: 1}

// Kind selects which component a bump increments.
type Kind string

const (
	Major Kind = "major"
	Minor Kind = "minor"
	Patch Kind = "patch"
)

// ParseKind validates a bump kind given on the command line.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case Major, Minor, Patch:
		return k, nil
	default:
		return "", fmt.Errorf("%w %q: expected major, minor or patch", ErrInvalidKind, s)
	}
}

// ParseVersion parses "x.y.z". No repair is attempted on malformed input.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w %q: want three components, got %d", ErrMalformedVersion, s, len(parts))
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || strings.HasPrefix(p, "+") {
			return Version{}, fmt.Errorf("%w %q: component %q is not a non-negative integer", ErrMalformedVersion, s, p)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Next returns the version after a bump of the given kind.
func (v Version) Next(kind Kind) (Version, error) {
	switch kind {
	case Major:
		return Version{Major: v.Major + 1}, nil
	case Minor:
		return Version{Major: v.Major, Minor: v.Minor + 1}, nil
	case Patch:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}, nil
	default:
		return v, fmt.Errorf("%w %q", ErrInvalidKind, kind)
	}
}

// Less reports whether v sorts strictly before o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor < o.Minor
	}
	return v.Patch < o.Patch
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Tag is the Git tag name for v.
func (v Version) Tag() string {
	return "v" + v.String()
}
