// Package version provides named, immutable major.minor.patch identities
// used to track overlays, slides and rings across releases.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a malformed version string or an empty name.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("version: cannot parse %q: %s", e.Input, e.Reason)
}

// Version is a named version triple. The zero value is not valid; use New
// or Parse.
type Version struct {
	Name  string
	Major int
	Minor int
	Patch int
}

// New builds a Version from a name and up to three numeric parts. Missing
// parts default to zero. An empty name or a negative part is rejected.
func New(name string, major int, rest ...int) (Version, error) {
	if name == "" {
		return Version{}, &ParseError{Input: name, Reason: "empty name"}
	}
	v := Version{Name: name, Major: major}
	if len(rest) > 0 {
		v.Minor = rest[0]
	}
	if len(rest) > 1 {
		v.Patch = rest[1]
	}
	if v.Major < 0 || v.Minor < 0 || v.Patch < 0 {
		return Version{}, &ParseError{Input: v.Full(), Reason: "negative part"}
	}
	return v, nil
}

// Parse builds a Version from a name and a dotted string such as "1",
// "1.2" or "1.2.3". Missing segments default to zero.
func Parse(name, s string) (Version, error) {
	if name == "" {
		return Version{}, &ParseError{Input: s, Reason: "empty name"}
	}
	parts, err := ParseTriple(s)
	if err != nil {
		return Version{}, err
	}
	return Version{Name: name, Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}

// ParseTriple parses "a[.b[.c]]" into a [major, minor, patch] array.
func ParseTriple(s string) ([3]int, error) {
	var out [3]int
	if s == "" {
		return out, &ParseError{Input: s, Reason: "empty version"}
	}
	segs := strings.SplitN(s, ".", 3)
	for i, seg := range segs {
		n, err := strconv.Atoi(strings.TrimSpace(seg))
		if err != nil || n < 0 {
			return out, &ParseError{Input: s, Reason: fmt.Sprintf("segment %d is not a non-negative integer", i+1)}
		}
		out[i] = n
	}
	return out, nil
}

// String returns the name joined with the full triple, e.g. "login-1.2.3".
func (v Version) String() string {
	return v.Name + "-" + v.Full()
}

// Full returns "major.minor.patch".
func (v Version) Full() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Short returns "major.minor".
func (v Version) Short() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare orders the receiver's triple against an explicit triple: -1 when
// older, 0 when equal, 1 when newer. The name takes no part in ordering.
func (v Version) Compare(major, minor, patch int) int {
	switch {
	case v.Major != major:
		return sign(v.Major - major)
	case v.Minor != minor:
		return sign(v.Minor - minor)
	case v.Patch != patch:
		return sign(v.Patch - patch)
	}
	return 0
}

// NewerThan reports whether the receiver's triple is strictly newer than o's.
func (v Version) NewerThan(o Version) bool {
	return v.Compare(o.Major, o.Minor, o.Patch) > 0
}

// NewerThanParts reports whether the receiver is strictly newer than the
// explicit triple.
func (v Version) NewerThanParts(major, minor, patch int) bool {
	return v.Compare(major, minor, patch) > 0
}

// OlderThan reports whether the receiver's triple is strictly older than o's.
func (v Version) OlderThan(o Version) bool {
	return v.Compare(o.Major, o.Minor, o.Patch) < 0
}

// OlderThanParts reports whether the receiver is strictly older than the
// explicit triple.
func (v Version) OlderThanParts(major, minor, patch int) bool {
	return v.Compare(major, minor, patch) < 0
}

// Equal reports whether both name and triple match.
func (v Version) Equal(o Version) bool {
	return v.Name == o.Name && v.Compare(o.Major, o.Minor, o.Patch) == 0
}

// EqualParts reports whether the receiver's triple matches the explicit
// triple, ignoring the name.
func (v Version) EqualParts(major, minor, patch int) bool {
	return v.Compare(major, minor, patch) == 0
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}
